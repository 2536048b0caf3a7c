package bus

import (
	"context"
	"reflect"
)

// Mediator is the non-generic contract of the concrete mediator. Typed sends
// go through mediator.Send; this interface is for consumers that want to
// depend only on contracts.
type Mediator interface {
	// SendAs dispatches a request to the single handler registered for the
	// request's concrete type and the given response type.
	SendAs(ctx context.Context, req Request, response reflect.Type) (any, error)

	// Publish invokes every handler registered for the notification's concrete
	// type, one after another, stopping at the first failure.
	Publish(ctx context.Context, n Notification) error
}
