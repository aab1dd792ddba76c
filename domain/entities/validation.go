package entities

import "strings"

// ValidationResult represents the outcome of validating a request payload.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Fail records an error and marks the result invalid.
func (r *ValidationResult) Fail(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// Error joins all errors as "field: message" pairs.
func (r *ValidationResult) Error() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}
