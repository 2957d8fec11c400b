package adapter

import (
	"context"

	m "importmock.dev/pkg/importmock/internal/model"
)

// RealResolver is the host's own resolution algorithm, narrowed to the one
// operation the resolve stage delegates to.
type RealResolver interface {
	// ResolveReal computes the real address of specifier as requested by
	// parent. Failures are returned unchanged to the host.
	ResolveReal(ctx context.Context, specifier string, parent m.Parent) (m.RealAddress, error)
}

// RealLoader is the host's own loader, narrowed to the one operation the
// load stage delegates to.
type RealLoader interface {
	// LoadReal materializes the text of a real address.
	LoadReal(ctx context.Context, addr m.RealAddress) (m.Module, error)
}

// Host is a module system able to both resolve and load real modules.
type Host interface {
	RealResolver
	RealLoader
}

// ResolverFunc adapts a function to RealResolver.
type ResolverFunc func(ctx context.Context, specifier string, parent m.Parent) (m.RealAddress, error)

// ResolveReal implements RealResolver.
func (f ResolverFunc) ResolveReal(ctx context.Context, specifier string, parent m.Parent) (m.RealAddress, error) {
	return f(ctx, specifier, parent)
}

// LoaderFunc adapts a function to RealLoader.
type LoaderFunc func(ctx context.Context, addr m.RealAddress) (m.Module, error)

// LoadReal implements RealLoader.
func (f LoaderFunc) LoadReal(ctx context.Context, addr m.RealAddress) (m.Module, error) {
	return f(ctx, addr)
}
