package facility

import (
	"fmt"
	"strings"
	"sync"
)

// Factory constructs an adapter candidate with no arguments. It returns
// any rather than Adapter so that the capability probe happens where the
// binding is made, with an error that names the offending locator.
type Factory func() any

// Registry maps adapter locators to factories. Locators have the form
// "<module.path>.<SymbolName>"; the final dot separates the module path
// from the symbol.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]map[string]Factory)}
}

// Register adds a factory under the given module path and symbol name.
// Registration happens at process startup, before any route group is
// constructed.
func (r *Registry) Register(module, symbol string, f Factory) error {
	if module == "" || symbol == "" {
		return fmt.Errorf("registering adapter: module and symbol must be non-empty")
	}
	if f == nil {
		return fmt.Errorf("registering adapter %s.%s: nil factory", module, symbol)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	symbols, ok := r.modules[module]
	if !ok {
		symbols = make(map[string]Factory)
		r.modules[module] = symbols
	}
	if _, exists := symbols[symbol]; exists {
		return fmt.Errorf("registering adapter %s.%s: already registered", module, symbol)
	}
	symbols[symbol] = f
	return nil
}

// MustRegister is like Register but panics on error. Used for built-in
// adapters wired at startup, where a duplicate registration is a
// programming error.
func (r *Registry) MustRegister(module, symbol string, f Factory) {
	if err := r.Register(module, symbol, f); err != nil {
		panic(err)
	}
}

// New resolves a locator and instantiates the adapter candidate. The
// locator is split on its final dot into module path and symbol name;
// an unknown module or symbol is a startup error naming the locator.
func (r *Registry) New(locator string) (any, error) {
	idx := strings.LastIndex(locator, ".")
	if idx <= 0 || idx == len(locator)-1 {
		return nil, fmt.Errorf("adapter locator %q: want <module.path>.<SymbolName>", locator)
	}
	module, symbol := locator[:idx], locator[idx+1:]

	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols, ok := r.modules[module]
	if !ok {
		return nil, fmt.Errorf("adapter locator %q: no such module %q", locator, module)
	}
	f, ok := symbols[symbol]
	if !ok {
		return nil, fmt.Errorf("adapter locator %q: module %q has no symbol %q", locator, module, symbol)
	}
	return f(), nil
}
