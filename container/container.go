// Package container provides a minimal in-memory dependency-injection
// container satisfying cbus.Container. Every registration has a transient
// lifetime: each resolution calls the factory again.
package container

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

type entry struct {
	handler reflect.Type
	factory cbus.Factory
}

// Container is a thread-safe transient container.
type Container struct {
	mu     sync.RWMutex
	shapes map[cbus.Key][]entry
}

// Ensure Container implements the collaborator contract.
var _ cbus.Container = (*Container)(nil)

// New creates an empty container.
func New() *Container {
	return &Container{shapes: make(map[cbus.Key][]entry)}
}

// Register appends handler and its factory to key.
func (c *Container) Register(key cbus.Key, handler reflect.Type, factory cbus.Factory) error {
	if handler == nil || factory == nil {
		return fmt.Errorf("register %s: nil handler type or factory: %w", key, merr.ErrConfiguration)
	}

	c.mu.Lock()
	c.shapes[key] = append(c.shapes[key], entry{handler: handler, factory: factory})
	c.mu.Unlock()

	return nil
}

// Resolve builds the handler registered under key. A key with no handler, or
// with more than one, is unresolvable.
func (c *Container) Resolve(_ context.Context, key cbus.Key) (any, error) {
	entries := c.entries(key)

	switch len(entries) {
	case 0:
		return nil, fmt.Errorf("resolve %s: %w", key, merr.ErrHandlerUnresolvable)
	case 1:
		return build(key, entries[0])
	default:
		return nil, fmt.Errorf("resolve %s: %d handlers registered: %w", key, len(entries), merr.ErrHandlerUnresolvable)
	}
}

// ResolveAll builds one instance per registration under key, in
// registration order. An unknown key yields an empty result.
func (c *Container) ResolveAll(_ context.Context, key cbus.Key) ([]any, error) {
	entries := c.entries(key)
	out := make([]any, 0, len(entries))

	for _, e := range entries {
		inst, err := build(key, e)
		if err != nil {
			return nil, err
		}

		out = append(out, inst)
	}

	return out, nil
}

func (c *Container) entries(key cbus.Key) []entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]entry(nil), c.shapes[key]...)
}

func build(key cbus.Key, e entry) (any, error) {
	inst := e.factory()
	if inst == nil {
		return nil, fmt.Errorf("resolve %s: %s factory returned nil: %w",
			key, cbus.TypeName(e.handler), merr.ErrHandlerUnresolvable)
	}

	return inst, nil
}
