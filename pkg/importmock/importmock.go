// Package importmock substitutes replacement source for specific imports of
// a module system, scoped to a single importing module.
//
// A host wires the two stages into its module pipeline:
//
//	registry, err := importmock.NewRegistryBuilder().
//		Mock("mod/app.js", "mod/net.js", "export default 'mocked';").
//		Build()
//	hooks := importmock.NewHooks(registry, host, nil)
//
//	addr, err := hooks.Resolve(ctx, "./net.js", importmock.ParentOf(appAddr))
//	mod, err := hooks.Load(ctx, addr)
//
// Keys match by suffix of the real resolved address and the first
// registered key wins. A mocked import resolves to a synthetic address of
// the form "mock:<importer>,<import>" that only the load stage of the same
// hooks can serve.
package importmock

import (
	"importmock.dev/pkg/importmock/internal/adapter"
	"importmock.dev/pkg/importmock/internal/domain"
	m "importmock.dev/pkg/importmock/internal/model"
)

type (
	// Address is a real or synthetic module address.
	Address = m.Address
	// RealAddress is an address produced by the host resolver.
	RealAddress = m.RealAddress
	// SyntheticAddress points at a registered replacement.
	SyntheticAddress = m.SyntheticAddress
	// Format is a module-format hint.
	Format = m.Format
	// Parent is the optional importing module.
	Parent = m.Parent
	// Module is loadable module text.
	Module = m.Module
	// ImporterKey matches importing modules by suffix.
	ImporterKey = m.ImporterKey
	// ImportKey matches imported modules by suffix.
	ImportKey = m.ImportKey
	// ReplacementSource is the module body served for a mocked import.
	ReplacementSource = m.ReplacementSource
	// MockEntry is one registered pair.
	MockEntry = m.MockEntry
	// ConfigurationError reports a synthetic address that cannot be served.
	ConfigurationError = m.ConfigurationError
	// TraceEvent is a match or skip decision.
	TraceEvent = m.TraceEvent

	// Registry is the immutable mock table.
	Registry = domain.Registry
	// RegistryBuilder collects mocks before the registry is frozen.
	RegistryBuilder = domain.RegistryBuilder
	// Hooks bundles the resolve and load stages.
	Hooks = domain.Hooks
	// Tracer receives match and skip decisions.
	Tracer = domain.Tracer

	// Host is the real resolver and loader of a module system.
	Host = adapter.Host
	// RealResolver is the host's resolver.
	RealResolver = adapter.RealResolver
	// RealLoader is the host's loader.
	RealLoader = adapter.RealLoader
	// ResolverFunc adapts a function to RealResolver.
	ResolverFunc = adapter.ResolverFunc
	// LoaderFunc adapts a function to RealLoader.
	LoaderFunc = adapter.LoaderFunc
)

// Module formats.
const (
	FormatModule   = m.FormatModule
	FormatCommonJS = m.FormatCommonJS
	FormatJSON     = m.FormatJSON
	FormatBuiltin  = m.FormatBuiltin
)

var (
	// ErrConfiguration matches every ConfigurationError.
	ErrConfiguration = m.ErrConfiguration
	// ErrInvalidRegistry is returned by RegistryBuilder.Build.
	ErrInvalidRegistry = m.ErrInvalidRegistry
)

// NewRegistryBuilder returns an empty registry builder.
func NewRegistryBuilder() *RegistryBuilder { return domain.NewRegistryBuilder() }

// NewHooks wires both stages to registry and host. tracer may be nil.
func NewHooks(registry *Registry, host Host, tracer Tracer) Hooks {
	return domain.NewHooks(registry, host, tracer)
}

// ParseAddress decodes the wire form of an address.
func ParseAddress(raw string) (Address, error) { return m.ParseAddress(raw) }

// NoParent is the parent of an entry module.
func NoParent() Parent { return m.NoParent() }

// ParentOf wraps the address of an importing module.
func ParentOf(addr Address) Parent { return m.ParentOf(addr) }

// HostFunc combines two functions into a Host.
func HostFunc(resolve ResolverFunc, load LoaderFunc) Host {
	return funcHost{ResolverFunc: resolve, LoaderFunc: load}
}

type funcHost struct {
	ResolverFunc
	LoaderFunc
}
