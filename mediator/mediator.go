package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/registry"
)

// Mediator is a thin in-process dispatcher over an immutable registry.
// It holds no per-call state and is safe for concurrent use once the registry
// has been built and installed into the container.
type Mediator struct {
	registry  *registry.Registry
	container cbus.Container
	logger    *slog.Logger

	// request middleware executed in registration order
	reqMW []RequestMiddleware
}

var _ cbus.Mediator = (*Mediator)(nil)

// Option configures a Mediator.
type Option func(*Mediator)

// WithLogger sets the logger for dispatch diagnostics. Nil keeps logging disabled.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mediator) {
		if l != nil {
			m.logger = l
		}
	}
}

// New constructs a Mediator. The registry must already be installed into c.
func New(reg *registry.Registry, c cbus.Container, opts ...Option) *Mediator {
	m := &Mediator{registry: reg, container: c, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Registry returns the registry the mediator dispatches from.
func (m *Mediator) Registry() *registry.Registry { return m.registry }

// Send dispatches req to the handler registered for its concrete type and
// response type R, and returns the handler's response.
func Send[R any](ctx context.Context, m *Mediator, req cbus.Request) (R, error) {
	var zero R

	res, err := m.SendAs(ctx, req, reflect.TypeFor[R]())
	if err != nil {
		return zero, err
	}

	if res == nil {
		return zero, nil
	}

	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("send %s: response %T: %w", cbus.TypeName(cbus.TypeOf(req)), res, merr.ErrHandlerTypeMismatch)
	}

	return r, nil
}

// SendAs is the untyped form of Send: response names the expected response
// type. Handler errors are returned as produced by the handler.
func (m *Mediator) SendAs(ctx context.Context, req cbus.Request, response reflect.Type) (any, error) {
	if req == nil {
		return nil, fmt.Errorf("send: %w", merr.ErrNilMessage)
	}

	reg, err := m.registry.ResolveRequestHandler(cbus.TypeOf(req), response)
	if err != nil {
		m.logger.DebugContext(ctx, "No request handler.", "request", cbus.TypeName(cbus.TypeOf(req)))

		return nil, fmt.Errorf("send: %w", err)
	}

	call := func(ctx context.Context, req cbus.Request) (any, error) {
		return m.invoke(ctx, reg, req)
	}

	return m.chain(call)(ctx, req)
}

// Publish resolves every handler registered for the concrete type of n from
// the container in one call, then invokes them in registration order, awaiting
// each before starting the next. The first handler error is returned as is
// and the remaining handlers are not invoked; handlers that already ran are
// not compensated.
func (m *Mediator) Publish(ctx context.Context, n cbus.Notification) error {
	if n == nil {
		return fmt.Errorf("publish: %w", merr.ErrNilMessage)
	}

	regs := m.registry.ResolveNotificationHandlers(cbus.TypeOf(n))
	m.logger.DebugContext(ctx, "Publishing notification.",
		"notification", cbus.TypeName(cbus.TypeOf(n)), "handlers", len(regs))

	if len(regs) == 0 {
		return nil
	}

	key := regs[0].Key()

	handlers, err := m.container.ResolveAll(ctx, key)
	if err != nil {
		return fmt.Errorf("resolve handlers %s: %w", key, err)
	}

	if len(handlers) != len(regs) {
		return fmt.Errorf("resolve handlers %s: container built %d of %d: %w",
			key, len(handlers), len(regs), merr.ErrHandlerUnresolvable)
	}

	for i, reg := range regs {
		if _, err := reg.Invoke(ctx, handlers[i], n); err != nil {
			m.logger.DebugContext(ctx, "Notification handler failed.",
				"handler", cbus.TypeName(reg.Handler()), "error", err)

			return err
		}
	}

	return nil
}

func (m *Mediator) invoke(ctx context.Context, reg registry.Registration, msg any) (any, error) {
	h, err := m.container.Resolve(ctx, reg.Key())
	if err != nil {
		return nil, fmt.Errorf("resolve handler %s: %w", cbus.TypeName(reg.Handler()), err)
	}

	return reg.Invoke(ctx, h, msg)
}
