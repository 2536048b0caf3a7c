package bus

import (
	"context"
	"reflect"
)

// Factory constructs a new handler instance.
type Factory func() any

// Container is the dependency-injection collaborator that owns handler
// instances. The mediator registers one factory per handler conformance at
// startup and resolves instances by handler shape at dispatch time.
//
// Implementations must be safe for concurrent Resolve calls once
// registration has completed.
type Container interface {
	// Register appends a conformance of handler to the shape key using a
	// transient lifetime. Each registration keeps its own factory, even when
	// several share a handler type.
	Register(key Key, handler reflect.Type, factory Factory) error

	// Resolve returns a new instance of the single handler registered under key.
	Resolve(ctx context.Context, key Key) (any, error)

	// ResolveAll returns a new instance of every handler registered under key,
	// in registration order.
	ResolveAll(ctx context.Context, key Key) ([]any, error)
}
