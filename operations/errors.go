package operations

import (
	"encoding/json"
	"fmt"
)

// Error type identifiers.
const (
	ErrValidation = "VALIDATION_ERROR"
	ErrNotFound   = "NOT_FOUND"
	ErrInternal   = "INTERNAL_ERROR"
)

// ErrorResponse is a structured error returned in place of an operation response.
type ErrorResponse struct {
	// Error is a machine-readable error type identifier (e.g., "VALIDATION_ERROR").
	Error string `json:"error"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Code is an HTTP-like status code (400, 404, 500).
	Code int `json:"code"`
}

// ToJSON serializes the ErrorResponse to JSON bytes.
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// AsErrorResponse reports whether payload is an ErrorResponse and decodes it.
func AsErrorResponse(payload []byte) (ErrorResponse, bool) {
	var wire struct {
		Error   *string `json:"error"`
		Message string  `json:"message"`
		Code    int     `json:"code"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil || wire.Error == nil || wire.Code == 0 {
		return ErrorResponse{}, false
	}
	return ErrorResponse{Error: *wire.Error, Message: wire.Message, Code: wire.Code}, true
}

// NewValidationError creates an error response for bad input.
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{Error: ErrValidation, Message: message, Code: 400}
}

// NewNotFoundError creates an error response for unknown operation names.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{Error: ErrNotFound, Message: "unknown operation: " + name, Code: 404}
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{Error: ErrInternal, Message: message, Code: 500}
}

// NewPanicError creates an error response for recovered panics.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	switch v := panicValue.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprintf("%v", v)
	}
	return NewInternalError("panic: " + msg)
}
