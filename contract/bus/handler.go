package bus

import "context"

// RequestHandler handles requests of type Q and produces a response of type R.
type RequestHandler[Q Request, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// NotificationHandler handles notifications of type N.
// Handlers for the same notification run sequentially, so a handler may rely on
// the side effects of the handlers registered before it.
type NotificationHandler[N Notification] interface {
	Handle(ctx context.Context, n N) error
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc[Q Request, R any] func(ctx context.Context, q Q) (R, error)

func (f RequestHandlerFunc[Q, R]) Handle(ctx context.Context, q Q) (R, error) { return f(ctx, q) }

// NotificationHandlerFunc adapts a function to NotificationHandler.
type NotificationHandlerFunc[N Notification] func(ctx context.Context, n N) error

func (f NotificationHandlerFunc[N]) Handle(ctx context.Context, n N) error { return f(ctx, n) }
