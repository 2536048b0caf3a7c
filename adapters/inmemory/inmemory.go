package inmemory

import (
	"context"
	"sync"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
)

// Forwarded is one notification received by a Sink.
type Forwarded struct {
	Notification cbus.Notification
	Options      cbus.ForwardOptions
}

// Sink is a thread-safe in-memory implementation of cbus.Sink.
// It records forwarded notifications for testing and examples.
type Sink struct {
	mu        sync.Mutex
	forwarded []Forwarded
}

var _ cbus.Sink = (*Sink)(nil)

// New creates a new in-memory sink.
func New() *Sink { return &Sink{} }

// Forward records n. It fails only when ctx is already done.
func (s *Sink) Forward(ctx context.Context, n cbus.Notification, opts cbus.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.forwarded = append(s.forwarded, Forwarded{Notification: n, Options: opts})
	s.mu.Unlock()

	return nil
}

// Forwarded returns a snapshot of everything recorded so far, oldest first.
func (s *Sink) Forwarded() []Forwarded {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Forwarded, len(s.forwarded))
	copy(out, s.forwarded)

	return out
}

// Subjects returns the subjects recorded so far, oldest first.
func (s *Sink) Subjects() []string {
	fs := s.Forwarded()

	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Options.Subject)
	}

	return out
}
