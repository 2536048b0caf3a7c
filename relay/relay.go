// Package relay provides notification handlers that forward notifications to
// a cbus.Sink, such as a broker adapter. A relay is an ordinary subscriber:
// it runs in registration order with the other handlers and its failures
// stop the publish like any other handler's.
package relay

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	"github.com/next-trace/scg-mediator/registry"
)

// HeaderMessageID carries a unique id per forwarded notification.
const HeaderMessageID = "x-message-id"

const subjectPrefix = "notify."

type config struct {
	subject    string
	headers    map[string]string
	propagator cbus.HeaderPropagator
	limiter    *rate.Limiter
	newID      func() string
}

// Option configures a relay.
type Option func(*config)

// WithSubject overrides the subject of every forwarded notification.
func WithSubject(subject string) Option {
	return func(c *config) { c.subject = subject }
}

// WithHeaders adds static headers to every forward.
func WithHeaders(h map[string]string) Option {
	return func(c *config) {
		if c.headers == nil {
			c.headers = make(map[string]string, len(h))
		}

		for k, v := range h {
			c.headers[k] = v
		}
	}
}

// WithPropagator injects context (e.g. tracing) into forward headers.
func WithPropagator(p cbus.HeaderPropagator) Option {
	return func(c *config) { c.propagator = p }
}

// WithRateLimit caps forwards at limit per second with the given burst.
// The limiter is shared by every instance built from one registration.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *config) { c.limiter = rate.NewLimiter(rate.Limit(limit), burst) }
}

func newConfig(opts []Option) *config {
	c := &config{newID: uuid.NewString}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Forwarder forwards notifications of type N to a sink.
type Forwarder[N cbus.Notification] struct {
	sink cbus.Sink
	cfg  *config
}

var _ cbus.NotificationHandler[struct{}] = (*Forwarder[struct{}])(nil)

// New returns a Forwarder for notifications of type N.
func New[N cbus.Notification](sink cbus.Sink, opts ...Option) *Forwarder[N] {
	return &Forwarder[N]{sink: sink, cfg: newConfig(opts)}
}

// Notification declares a Forwarder[N] as a handler of N. Instances resolved
// from the container share the options, including any rate limiter.
func Notification[N cbus.Notification](sink cbus.Sink, opts ...Option) registry.Registration {
	cfg := newConfig(opts)

	return registry.Notification[N](func() *Forwarder[N] {
		return &Forwarder[N]{sink: sink, cfg: cfg}
	})
}

// Handle forwards n. Errors from the limiter or the sink are returned as is.
func (f *Forwarder[N]) Handle(ctx context.Context, n N) error {
	if f.cfg.limiter != nil {
		if err := f.cfg.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	return f.sink.Forward(ctx, n, f.options(ctx, n))
}

func (f *Forwarder[N]) options(ctx context.Context, n N) cbus.ForwardOptions {
	opts := cbus.ForwardOptions{Subject: subjectFor(n, f.cfg.subject)}

	if k, ok := any(n).(cbus.Keyed); ok {
		opts.Key = k.MessageKey()
	}

	h := make(map[string]string, len(f.cfg.headers)+1)
	for k, v := range f.cfg.headers {
		h[k] = v
	}

	h[HeaderMessageID] = f.cfg.newID()

	if f.cfg.propagator != nil {
		f.cfg.propagator.Inject(ctx, h)
	}

	opts.Headers = h

	return opts
}

func subjectFor(n any, override string) string {
	if override != "" {
		return override
	}

	if s, ok := n.(cbus.Subjecter); ok {
		return s.Subject()
	}

	return subjectPrefix + cbus.ShortName(n)
}
