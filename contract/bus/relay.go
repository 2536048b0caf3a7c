package bus

import "context"

// Sink receives notifications forwarded by relay handlers.
// Library users provide an implementation backed by their broker of choice.
type Sink interface {
	Forward(ctx context.Context, n Notification, opts ForwardOptions) error
}

// ForwardOptions controls a single forward.
type ForwardOptions struct {
	Subject string
	Key     string
	Headers map[string]string
}

// Subjecter may be implemented by notifications that know their own subject.
type Subjecter interface {
	Subject() string
}

// Keyed may be implemented by notifications that carry a partitioning key.
type Keyed interface {
	MessageKey() string
}

// HeaderPropagator injects context (e.g. tracing) into forward headers.
// Implementations must be safe for concurrent use.
type HeaderPropagator interface {
	Inject(ctx context.Context, headers map[string]string)
}
