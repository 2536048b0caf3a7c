package registry

import "sync"

// Module is a named unit of handler declarations, the Go counterpart of a
// loadable assembly. A module whose Name is empty is synthetic: it can be
// scanned when passed explicitly but is never discovered implicitly.
type Module interface {
	Name() string
	// Handlers returns the module's registrations. An error marks the module
	// as not inspectable; scanning skips it.
	Handlers() ([]Registration, error)
}

type staticModule struct {
	name string
	regs []Registration
}

// NewModule returns a module with a fixed set of registrations.
func NewModule(name string, regs ...Registration) Module {
	return &staticModule{name: name, regs: regs}
}

func (m *staticModule) Name() string { return m.name }

func (m *staticModule) Handlers() ([]Registration, error) {
	return append([]Registration(nil), m.regs...), nil
}

type funcModule struct {
	name string
	fn   func() ([]Registration, error)
}

// ModuleFunc returns a module whose registrations are produced lazily by fn.
func ModuleFunc(name string, fn func() ([]Registration, error)) Module {
	return &funcModule{name: name, fn: fn}
}

func (m *funcModule) Name() string { return m.name }

func (m *funcModule) Handlers() ([]Registration, error) { return m.fn() }

// Catalog is the set of modules loaded into a process, in load order.
type Catalog struct {
	mu      sync.RWMutex
	modules []Module
}

// NewCatalog returns a catalog preloaded with mods.
func NewCatalog(mods ...Module) *Catalog {
	c := &Catalog{}
	for _, m := range mods {
		c.Load(m)
	}

	return c
}

// Load adds m to the catalog. Nil modules are ignored.
func (c *Catalog) Load(m Module) {
	if m == nil {
		return
	}

	c.mu.Lock()
	c.modules = append(c.modules, m)
	c.mu.Unlock()
}

// Modules returns a snapshot of the loaded modules.
func (c *Catalog) Modules() []Module {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]Module(nil), c.modules...)
}

var process = NewCatalog()

// Load adds m to the process catalog. Call it from init.
func Load(m Module) { process.Load(m) }

// Loaded returns the process catalog.
func Loaded() *Catalog { return process }
