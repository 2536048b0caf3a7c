package mediator

import (
	"fmt"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	"github.com/next-trace/scg-mediator/registry"
)

// Setup scans modules with s (the process catalog scanner when nil), installs
// every discovered handler into c and returns a Mediator over the result.
// args select the modules as described on registry.Scanner.Scan.
func Setup(c cbus.Container, s *registry.Scanner, args ...any) (*Mediator, error) {
	return SetupWith(c, s, nil, args...)
}

// SetupWith is Setup with options applied to the constructed Mediator.
func SetupWith(c cbus.Container, s *registry.Scanner, opts []Option, args ...any) (*Mediator, error) {
	if s == nil {
		s = registry.NewScanner()
	}

	reg, err := s.Scan(args...)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	if err := reg.Install(c); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	return New(reg, c, opts...), nil
}
