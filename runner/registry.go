package runner

import (
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/zoobzio/chainz"
)

// ErrNotFound is returned when a config references a name no chain was
// registered under.
var ErrNotFound = errors.New("not registered")

// Registry resolves the names appearing in a Config to the chains they
// stand for. Both pipeline steps and validator checks live in the same
// namespace; validator entries are carrier-typed chains built with
// chainz.NewCheck. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	chains map[string]*chainz.Chain
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{chains: make(map[string]*chainz.Chain)}
}

// Register makes c resolvable under name. Registering a nil chain or
// reusing a name is an error.
func (r *Registry) Register(name string, c *chainz.Chain) error {
	if c == nil {
		return errors.Errorf("register %s: nil chain", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.chains[name]; exists {
		return errors.Errorf("register %s: already registered", name)
	}
	r.chains[name] = c
	return nil
}

// Resolve returns the chain registered under name, or an error matching
// ErrNotFound.
func (r *Registry) Resolve(name string) (*chainz.Chain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chains[name]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	return c, nil
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.chains))
	for name := range r.chains {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
