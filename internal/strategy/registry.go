package strategy

import (
	"sort"

	"github.com/tradeforge/tradeforge/pkg/errors"
)

// Factory builds a strategy instance from a configuration.
type Factory func(config *Config) (Strategy, error)

// Registry maps strategy names to factories. It is an explicit,
// caller-constructed object rather than package-global state; populate it at
// process startup before any concurrent lookups, since registration and
// lookup are not synchronized.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry creates a registry populated with every known strategy.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(StrategySMACrossover, NewSMACrossover)
	registry.Register(StrategyRSIReversal, NewRSIReversal)

	return registry
}

// Register associates a name with a factory. Registration is idempotent per
// name; the last registration wins.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (Factory, bool) {
	factory, ok := r.factories[name]

	return factory, ok
}

// Create builds a strategy instance by name.
func (r *Registry) Create(name string, config *Config) (Strategy, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "strategy %q is not registered", name)
	}

	return factory(config)
}

// ListStrategies returns all registered names in sorted order.
func (r *Registry) ListStrategies() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
