package operations

import (
	"context"
	"sync"
)

// OperationContext wraps a context.Context with the invoked operation's name and
// request-scoped values shared between middleware.
type OperationContext interface {
	context.Context

	// OperationName returns the name of the operation being invoked.
	OperationName() string

	// SetValue stores a request-scoped value.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

type operationContext struct {
	context.Context
	mu     sync.Mutex
	values map[any]any
	name   string
}

// NewOperationContext creates an OperationContext wrapping ctx.
func NewOperationContext(ctx context.Context, name string) OperationContext {
	return &operationContext{
		Context: ctx,
		name:    name,
		values:  make(map[any]any),
	}
}

func (c *operationContext) OperationName() string {
	return c.name
}

func (c *operationContext) SetValue(key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *operationContext) GetValue(key any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

// OperationContextFrom returns ctx if it already is an OperationContext for
// name, and a new one wrapping ctx otherwise.
func OperationContextFrom(ctx context.Context, name string) OperationContext {
	if oc, ok := ctx.(OperationContext); ok && oc.OperationName() == name {
		return oc
	}
	return NewOperationContext(ctx, name)
}

// OperationNameFrom returns the operation name carried by ctx, or "unknown".
func OperationNameFrom(ctx context.Context) string {
	if oc, ok := ctx.(OperationContext); ok {
		return oc.OperationName()
	}
	return "unknown"
}
