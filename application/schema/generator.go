// Package schema generates JSON schemas for operation inputs.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
)

// GenerateSchema creates a JSON schema from a Go struct.
// Fields without omitempty are required and unknown properties are rejected.
// Field descriptions come from `jsonschema_description` tags.
// v must be a struct or a pointer to one, since operation inputs are JSON objects.
func GenerateSchema(v any) ([]byte, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &domainerrors.SchemaError{Type: fmt.Sprint(t), Err: fmt.Errorf("input must be a struct")}
	}

	schema := reflector().Reflect(v)

	jsonBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, &domainerrors.SchemaError{Type: t.String(), Err: fmt.Errorf("failed to marshal schema: %w", err)}
	}
	return jsonBytes, nil
}

// MustGenerateSchema is like GenerateSchema but panics on error.
// It is meant for request types fixed at compile time.
func MustGenerateSchema(v any) json.RawMessage {
	b, err := GenerateSchema(v)
	if err != nil {
		panic(err)
	}
	return b
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
		Anonymous:      true,
	}
}
