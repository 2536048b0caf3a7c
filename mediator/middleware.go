package mediator

import (
	"context"
	"log/slog"
	"time"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
)

// RequestFunc is a resolved request invocation.
type RequestFunc func(ctx context.Context, req cbus.Request) (any, error)

// RequestMiddleware wraps request handler execution. Middlewares are executed
// in registration order. They only see requests that resolved to a handler.
type RequestMiddleware func(next RequestFunc) RequestFunc

// WithRequestMiddleware registers request middleware.
func WithRequestMiddleware(mw ...RequestMiddleware) Option {
	return func(m *Mediator) { m.reqMW = append(m.reqMW, mw...) }
}

func (m *Mediator) chain(final RequestFunc) RequestFunc {
	// Build chain so the first registered middleware runs first
	for i := len(m.reqMW) - 1; i >= 0; i-- {
		final = m.reqMW[i](final)
	}

	return final
}

// Logging returns middleware that logs every resolved request at debug level.
func Logging(l *slog.Logger) RequestMiddleware {
	return func(next RequestFunc) RequestFunc {
		return func(ctx context.Context, req cbus.Request) (any, error) {
			start := time.Now()
			res, err := next(ctx, req)

			attrs := []any{"request", cbus.ShortName(req), "elapsed", time.Since(start)}
			if err != nil {
				attrs = append(attrs, "error", err)
			}

			l.DebugContext(ctx, "Request handled.", attrs...)

			return res, err
		}
	}
}
