package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Scanner collects registrations from modules into a Registry.
type Scanner struct {
	catalog *Catalog
	logger  *slog.Logger
}

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithCatalog makes the scanner discover modules from c instead of the
// process catalog.
func WithCatalog(c *Catalog) ScanOption {
	return func(s *Scanner) { s.catalog = c }
}

// WithLogger sets the scanner's logger. Nil keeps logging disabled.
func WithLogger(l *slog.Logger) ScanOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScanner returns a scanner over the process catalog.
func NewScanner(opts ...ScanOption) *Scanner {
	s := &Scanner{
		catalog: process,
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan builds a registry from the process catalog. See Scanner.Scan.
func Scan(args ...any) (*Registry, error) { return NewScanner().Scan(args...) }

type selection int

const (
	selectNone selection = iota
	selectModules
	selectPrefixes
)

// Scan selects modules and registers every concrete handler they declare.
//
// args selects the modules and must take one of three shapes:
//   - empty: every named module in the catalog;
//   - Module values (or []Module): exactly those modules;
//   - strings (or []string): catalog modules whose name starts with one of
//     the prefixes.
//
// Any other shape, including a mix of modules and strings, fails with
// ErrConfiguration before anything is registered. Explicit modules are
// scanned once per module value; discovered modules once per name. A module
// whose Handlers call fails is skipped. Registering two handlers for the same request and
// response pair fails with ErrHandlerExists.
func (s *Scanner) Scan(args ...any) (*Registry, error) {
	mods, explicit, err := s.selectModules(args)
	if err != nil {
		return nil, err
	}

	b := newBuilder()
	seen := make(map[any]struct{}, len(mods))

	for _, m := range mods {
		name := m.Name()
		if id, ok := moduleID(m, explicit); ok {
			if _, dup := seen[id]; dup {
				s.logger.Debug("Skipping module already scanned.", "module", name)
				continue
			}

			seen[id] = struct{}{}
		}

		regs, err := m.Handlers()
		if err != nil {
			s.logger.Warn("Skipping module that cannot be inspected.", "module", name, "error", err)
			continue
		}

		for _, reg := range regs {
			if !reg.concrete() {
				s.logger.Debug("Skipping abstract handler.", "module", name, "registration", reg.String())
				continue
			}

			if err := b.add(reg); err != nil {
				return nil, fmt.Errorf("scan module %q: %w", name, err)
			}

			s.logger.Debug("Registered handler.", "module", name, "registration", reg.String())
		}
	}

	r := b.build()
	s.logger.Debug("Scan complete.", "modules", len(mods), "registrations", r.Len())

	return r, nil
}

// moduleID identifies m for deduplication. Explicit modules are identified by
// value when their dynamic type is comparable, discovered ones by name.
func moduleID(m Module, explicit bool) (any, bool) {
	if explicit {
		return m, reflect.TypeOf(m).Comparable()
	}

	name := m.Name()

	return name, name != ""
}

// selectModules reports whether the modules were given explicitly.
func (s *Scanner) selectModules(args []any) ([]Module, bool, error) {
	if len(args) == 0 {
		return s.discover(nil), false, nil
	}

	var (
		mode     = selectNone
		mods     []Module
		prefixes []string
	)

	for i, arg := range args {
		var got selection

		switch v := arg.(type) {
		case Module:
			got = selectModules
			mods = append(mods, v)
		case []Module:
			got = selectModules

			for _, m := range v {
				if m == nil {
					return nil, false, fmt.Errorf("scan: argument %d contains a nil module: %w", i, merr.ErrConfiguration)
				}
			}

			mods = append(mods, v...)
		case string:
			got = selectPrefixes
			prefixes = append(prefixes, v)
		case []string:
			got = selectPrefixes
			prefixes = append(prefixes, v...)
		default:
			return nil, false, fmt.Errorf("scan: argument %d (%T) is neither a module nor a name prefix: %w",
				i, arg, merr.ErrConfiguration)
		}

		if mode != selectNone && mode != got {
			return nil, false, fmt.Errorf("scan: argument %d (%T) mixes modules and name prefixes: %w",
				i, arg, merr.ErrConfiguration)
		}

		mode = got
	}

	if mode == selectModules {
		return mods, true, nil
	}

	if len(prefixes) == 0 {
		return nil, false, nil
	}

	for _, p := range prefixes {
		if p == "" {
			return nil, false, fmt.Errorf("scan: empty name prefix: %w", merr.ErrConfiguration)
		}
	}

	return s.discover(prefixes), false, nil
}

// discover returns the catalog's named modules, restricted to prefixes when
// any are given.
func (s *Scanner) discover(prefixes []string) []Module {
	var out []Module

	for _, m := range s.catalog.Modules() {
		name := m.Name()
		if name == "" {
			continue
		}

		if prefixes != nil && !hasAnyPrefix(name, prefixes) {
			continue
		}

		out = append(out, m)
	}

	return out
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}

	return false
}
