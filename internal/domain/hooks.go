package domain

import (
	"importmock.dev/pkg/importmock/internal/adapter"
)

// Hooks bundles the resolve and load stages over one registry, the pair a
// host installs in its module pipeline.
type Hooks interface {
	Resolver
	Loader
	Registry() *Registry
}

type hooks struct {
	Resolver
	Loader

	registry *Registry
}

// NewHooks wires both stages to the same registry and host delegates. A nil
// registry behaves like an empty one.
func NewHooks(registry *Registry, host adapter.Host, tracer Tracer) Hooks {
	if registry == nil {
		registry = EmptyRegistry()
	}

	return &hooks{
		Resolver: NewResolver(registry, host, tracer),
		Loader:   NewLoader(registry, host),
		registry: registry,
	}
}

func (h *hooks) Registry() *Registry { return h.registry }
