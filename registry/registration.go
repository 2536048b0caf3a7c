package registry

import (
	"context"
	"fmt"
	"reflect"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Invoker calls a resolved handler instance with a message.
type Invoker func(ctx context.Context, handler, msg any) (any, error)

// Registration binds a message type identity (and, for requests, a response
// type identity) to a concrete handler type.
type Registration struct {
	key     cbus.Key
	handler reflect.Type
	factory cbus.Factory
	invoke  Invoker
}

// Key returns the handler shape this registration satisfies.
func (r Registration) Key() cbus.Key { return r.key }

// Handler returns the handler type identity.
func (r Registration) Handler() reflect.Type { return r.handler }

// Factory returns the constructor handed to the container. It is nil for
// abstract registrations.
func (r Registration) Factory() cbus.Factory { return r.factory }

// IsNotification reports whether the registration handles a notification.
func (r Registration) IsNotification() bool { return r.key.IsNotification() }

// Invoke calls handler with msg. Errors returned by the handler itself are
// passed through untouched.
func (r Registration) Invoke(ctx context.Context, handler, msg any) (any, error) {
	return r.invoke(ctx, handler, msg)
}

func (r Registration) String() string {
	return fmt.Sprintf("%s => %s", r.key, cbus.TypeName(r.handler))
}

// concrete reports whether the registration can be instantiated and matched:
// it needs a factory, a non-interface handler type and a non-interface
// message type (dispatch keys on the dynamic type of a message).
func (r Registration) concrete() bool {
	if r.factory == nil || r.invoke == nil || r.handler == nil || r.key.Message == nil {
		return false
	}

	return r.handler.Kind() != reflect.Interface && r.key.Message.Kind() != reflect.Interface
}

// Request declares handler type H as the handler of request Q answering R.
// A nil newFn declares an abstract handler that scanning skips.
func Request[Q cbus.Request, R any, H cbus.RequestHandler[Q, R]](newFn func() H) Registration {
	return RequestVia[Q, R](newFn, func(h H, ctx context.Context, q Q) (R, error) {
		return h.Handle(ctx, q)
	})
}

// RequestVia declares handler type H as the handler of request Q answering R
// through an arbitrary method, typically a method expression such as
// (*Orders).Find.
func RequestVia[Q cbus.Request, R any, H any](
	newFn func() H,
	handle func(h H, ctx context.Context, q Q) (R, error),
) Registration {
	key := cbus.KeyFor[Q, R]()

	return Registration{
		key:     key,
		handler: reflect.TypeFor[H](),
		factory: factoryOf(newFn),
		invoke: func(ctx context.Context, inst, msg any) (any, error) {
			h, ok := inst.(H)
			if !ok {
				return nil, fmt.Errorf("invoke %s: handler %T: %w", key, inst, merr.ErrHandlerTypeMismatch)
			}

			q, ok := msg.(Q)
			if !ok {
				return nil, fmt.Errorf("invoke %s: message %T: %w", key, msg, merr.ErrHandlerTypeMismatch)
			}

			return handle(h, ctx, q)
		},
	}
}

// Notification declares handler type H as a handler of notification N.
func Notification[N cbus.Notification, H cbus.NotificationHandler[N]](newFn func() H) Registration {
	return NotificationVia[N](newFn, func(h H, ctx context.Context, n N) error {
		return h.Handle(ctx, n)
	})
}

// NotificationVia declares handler type H as a handler of notification N
// through an arbitrary method. One type may be declared for several
// notifications this way; each declaration is its own registration.
func NotificationVia[N cbus.Notification, H any](
	newFn func() H,
	handle func(h H, ctx context.Context, n N) error,
) Registration {
	key := cbus.NotificationKey[N]()

	return Registration{
		key:     key,
		handler: reflect.TypeFor[H](),
		factory: factoryOf(newFn),
		invoke: func(ctx context.Context, inst, msg any) (any, error) {
			h, ok := inst.(H)
			if !ok {
				return nil, fmt.Errorf("invoke %s: handler %T: %w", key, inst, merr.ErrHandlerTypeMismatch)
			}

			n, ok := msg.(N)
			if !ok {
				return nil, fmt.Errorf("invoke %s: message %T: %w", key, msg, merr.ErrHandlerTypeMismatch)
			}

			return nil, handle(h, ctx, n)
		},
	}
}

func factoryOf[H any](newFn func() H) cbus.Factory {
	if newFn == nil {
		return nil
	}

	return func() any { return newFn() }
}
