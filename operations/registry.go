package operations

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/toolforge-dev/toolforge/application/schema"
	"github.com/toolforge-dev/toolforge/application/validation"
)

// Operation is a named handler with its published metadata.
type Operation struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     ByteHandler
}

// Descriptor is the published metadata of an operation.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Registry is an immutable collection of named operations.
// Once created via NewRegistry, operations cannot be added or removed.
type Registry struct {
	operations map[string]Operation
	handlers   map[string]ByteHandler
	names      []string
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryBuilder)

type registryBuilder struct {
	operations map[string]Operation
	middleware []Middleware
	validate   bool
	errors     []error
}

// NewRegistry creates an immutable Registry.
// Returns an error if any operation name is empty or registered twice.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware(), LoggingMiddleware(logger)),
//	    WithSchemaValidation(),
//	    WithBundle(ToolchainBundle(adapters)),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{operations: make(map[string]Operation)}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	middleware := b.middleware
	if b.validate {
		v := validation.NewRequestValidator()
		for name, op := range b.operations {
			if len(op.InputSchema) == 0 {
				continue
			}
			if err := v.Register(name, op.InputSchema); err != nil {
				return nil, err
			}
		}
		middleware = append(append([]Middleware(nil), middleware...), SchemaValidationMiddleware(v))
	}

	names := make([]string, 0, len(b.operations))
	handlers := make(map[string]ByteHandler, len(b.operations))
	for name, op := range b.operations {
		names = append(names, name)
		wrapped := op.Handler
		for i := len(middleware) - 1; i >= 0; i-- {
			wrapped = middleware[i](wrapped)
		}
		handlers[name] = wrapped
	}
	sort.Strings(names)

	return &Registry{operations: b.operations, handlers: handlers, names: names}, nil
}

// Invoke dispatches an operation call by name and returns its JSON response.
// Unknown names and handler errors are reported as ErrorResponse JSON.
func (r *Registry) Invoke(ctx context.Context, name string, payload []byte) []byte {
	handler, ok := r.handlers[name]
	if !ok {
		return NewNotFoundError(name).ToJSON()
	}

	resp, err := handler(OperationContextFrom(ctx, name), payload)
	if err != nil {
		return NewInternalError(err.Error()).ToJSON()
	}
	return resp
}

// Has returns true if an operation with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the sorted operation names.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Describe returns the metadata of every operation, sorted by name.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, 0, len(r.names))
	for _, name := range r.names {
		op := r.operations[name]
		out = append(out, Descriptor{Name: op.Name, Description: op.Description, InputSchema: op.InputSchema})
	}
	return out
}

func (b *registryBuilder) add(op Operation) {
	switch {
	case op.Name == "":
		b.errors = append(b.errors, fmt.Errorf("operation name cannot be empty"))
	case op.Handler == nil:
		b.errors = append(b.errors, fmt.Errorf("operation %q has no handler", op.Name))
	default:
		if _, exists := b.operations[op.Name]; exists {
			b.errors = append(b.errors, fmt.Errorf("duplicate operation name: %q", op.Name))
			return
		}
		b.operations[op.Name] = op
	}
}

// WithOperation registers a prepared operation.
func WithOperation(op Operation) RegistryOption {
	return func(b *registryBuilder) {
		b.add(op)
	}
}

// WithTypedOperation registers a typed operation with automatic JSON handling.
// The input schema is generated from Req.
//
// Example usage:
//
//	WithTypedOperation("echo", "Echo the input", func(ctx context.Context, req EchoRequest) EchoResponse {
//	    return EchoResponse{Text: req.Text}
//	})
func WithTypedOperation[Req any, Resp any](name, description string, fn OperationFunc[Req, Resp]) RegistryOption {
	return func(b *registryBuilder) {
		op, err := NewOperation(name, description, fn)
		if err != nil {
			b.errors = append(b.errors, err)
			return
		}
		b.add(op)
	}
}

// NewOperation builds an Operation from a typed function, generating its schema.
func NewOperation[Req any, Resp any](name, description string, fn OperationFunc[Req, Resp]) (Operation, error) {
	var zero Req
	s, err := schema.GenerateSchema(zero)
	if err != nil {
		return Operation{}, fmt.Errorf("schema for operation %q: %w", name, err)
	}
	return Operation{
		Name:        name,
		Description: description,
		InputSchema: s,
		Handler:     NewJSONHandler(fn),
	}, nil
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// WithSchemaValidation validates every payload against its operation's input
// schema before the handler runs.
func WithSchemaValidation() RegistryOption {
	return func(b *registryBuilder) {
		b.validate = true
	}
}
