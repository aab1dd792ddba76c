// Package validation checks operation payloads against their JSON schemas.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/toolforge-dev/toolforge/domain/entities"
	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
)

// RequestValidator validates JSON payloads against schemas registered by name.
// It is safe for concurrent use.
type RequestValidator struct {
	mu       sync.RWMutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

// NewRequestValidator creates an empty validator.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

// Register compiles schema and stores it under name. Failures are reported as
// *errors.SchemaError naming the operation.
func (v *RequestValidator) Register(name string, schema []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.schemas[name]; exists {
		return &domainerrors.SchemaError{Type: name, Err: errors.New("schema already registered")}
	}

	url := "mem://operations/" + name
	if err := v.compiler.AddResource(url, bytes.NewReader(schema)); err != nil {
		return &domainerrors.SchemaError{Type: name, Err: fmt.Errorf("failed to add schema resource: %w", err)}
	}
	sch, err := v.compiler.Compile(url)
	if err != nil {
		return &domainerrors.SchemaError{Type: name, Err: fmt.Errorf("invalid schema: %w", err)}
	}
	v.schemas[name] = sch
	return nil
}

// Has reports whether a schema is registered under name.
func (v *RequestValidator) Has(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.schemas[name]
	return ok
}

// Validate checks payload against the schema registered under name.
// An empty payload is treated as an empty object.
func (v *RequestValidator) Validate(name string, payload []byte) *entities.ValidationResult {
	result := &entities.ValidationResult{Valid: true}

	v.mu.RLock()
	sch, ok := v.schemas[name]
	v.mu.RUnlock()
	if !ok {
		result.Fail(name, fmt.Sprintf("no schema registered for %s", name))
		return result
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		payload = []byte("{}")
	}

	var obj any
	if err := json.Unmarshal(payload, &obj); err != nil {
		result.Fail(name, fmt.Sprintf("malformed JSON: %v", err))
		return result
	}

	if err := sch.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			for _, leaf := range leaves(ve) {
				result.Fail(fieldName(leaf.InstanceLocation, name), leaf.Message)
			}
		} else {
			result.Fail(name, err.Error())
		}
	}
	return result
}

// leaves flattens a validation error tree to the errors that carry the detail.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func fieldName(instanceLocation, fallback string) string {
	field := strings.TrimPrefix(instanceLocation, "/")
	if field == "" {
		return fallback
	}
	return field
}
