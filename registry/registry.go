package registry

import (
	"fmt"
	"reflect"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Registry maps message type identities to handler registrations.
// It is built once and never mutated afterwards, so it is safe for concurrent
// readers without locking.
type Registry struct {
	requests      map[cbus.Key]Registration
	notifications map[reflect.Type][]Registration
	all           []Registration
}

// New builds a registry from explicit registrations. Unlike Scan, it rejects
// abstract registrations instead of skipping them.
func New(regs ...Registration) (*Registry, error) {
	b := newBuilder()

	for i, reg := range regs {
		if !reg.concrete() {
			return nil, fmt.Errorf("registration %d (%s) is not concrete: %w", i, reg, merr.ErrConfiguration)
		}

		if err := b.add(reg); err != nil {
			return nil, err
		}
	}

	return b.build(), nil
}

// Registrations returns every registration in the order it was added.
func (r *Registry) Registrations() []Registration {
	return append([]Registration(nil), r.all...)
}

// Len returns the number of registrations.
func (r *Registry) Len() int { return len(r.all) }

// Install registers every handler conformance with the container, in
// registration order.
func (r *Registry) Install(c cbus.Container) error {
	for _, reg := range r.all {
		if err := c.Register(reg.key, reg.handler, reg.factory); err != nil {
			return fmt.Errorf("install %s: %w", reg, err)
		}
	}

	return nil
}

type builder struct {
	requests      map[cbus.Key]Registration
	notifications map[reflect.Type][]Registration
	all           []Registration
}

func newBuilder() *builder {
	return &builder{
		requests:      make(map[cbus.Key]Registration),
		notifications: make(map[reflect.Type][]Registration),
	}
}

// add rejects a second request handler for the same (request, response) pair.
// Notification handlers accumulate in order.
func (b *builder) add(reg Registration) error {
	if reg.IsNotification() {
		b.notifications[reg.key.Message] = append(b.notifications[reg.key.Message], reg)
		b.all = append(b.all, reg)

		return nil
	}

	if prev, exists := b.requests[reg.key]; exists {
		return fmt.Errorf(
			"register %s: already handled by %s: %w",
			reg, cbus.TypeName(prev.handler), merr.ErrHandlerExists,
		)
	}

	b.requests[reg.key] = reg
	b.all = append(b.all, reg)

	return nil
}

func (b *builder) build() *Registry {
	return &Registry{
		requests:      b.requests,
		notifications: b.notifications,
		all:           b.all,
	}
}
