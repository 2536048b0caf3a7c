// Package memory wires a mediator to the in-memory container in one call.
package memory

import (
	"github.com/next-trace/scg-mediator/container"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

// New scans the process catalog with args (see registry.Scanner.Scan),
// installs the handlers into a fresh in-memory container and returns the
// mediator.
func New(args ...any) (*mediator.Mediator, error) {
	return mediator.Setup(container.New(), registry.NewScanner(), args...)
}

// NewWith is New with options applied to the mediator.
func NewWith(opts []mediator.Option, args ...any) (*mediator.Mediator, error) {
	return mediator.SetupWith(container.New(), registry.NewScanner(), opts, args...)
}
