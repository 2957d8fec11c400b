package domain

import (
	"context"
	"log/slog"

	"importmock.dev/pkg/importmock/internal/adapter"
	m "importmock.dev/pkg/importmock/internal/model"
)

// Tracer receives the match and skip decisions of the resolve stage.
type Tracer interface {
	Trace(ctx context.Context, event m.TraceEvent)
}

// Resolver is the resolve stage: it returns either the real address of an
// import or a synthetic address pointing at a registered replacement.
type Resolver interface {
	Resolve(ctx context.Context, specifier string, parent m.Parent) (m.Address, error)
}

type resolver struct {
	registry *Registry
	host     adapter.RealResolver
	tracer   Tracer
}

// NewResolver constructs the resolve stage. tracer may be nil.
func NewResolver(registry *Registry, host adapter.RealResolver, tracer Tracer) Resolver {
	return &resolver{
		registry: registry,
		host:     host,
		tracer:   tracer,
	}
}

func (r *resolver) Resolve(ctx context.Context, specifier string, parent m.Parent) (m.Address, error) {
	caller, ok := parent.Get()
	if !ok {
		return r.resolveReal(ctx, specifier, m.NoParent())
	}

	// Replacement modules always import real modules, usually the very
	// module they stand in for.
	if m.IsSynthetic(caller) {
		return r.resolveReal(ctx, specifier, m.NoParent())
	}

	target, err := r.host.ResolveReal(ctx, specifier, parent)
	if err != nil {
		return nil, err
	}

	replacements, ok := r.registry.ReplacementsFor(caller.String())
	if !ok {
		return target, nil
	}

	imported, ok := replacements.Match(target.String())
	if !ok {
		slog.Debug("mock skipped", "specifier", specifier, "importer", replacements.Importer(), "target", target.URL)
		r.trace(ctx, m.TraceEvent{
			Kind:      m.TraceSkipped,
			Specifier: specifier,
			Importer:  replacements.Importer(),
			Target:    target.URL,
		})

		return target, nil
	}

	slog.Debug("mock matched", "specifier", specifier, "importer", replacements.Importer(), "import", imported)
	r.trace(ctx, m.TraceEvent{
		Kind:      m.TraceMatched,
		Specifier: specifier,
		Importer:  replacements.Importer(),
		Import:    imported,
		Target:    target.URL,
	})

	return m.SyntheticAddress{
		Importer: replacements.Importer(),
		Import:   imported,
		Format:   m.ReplacementFormat(target.Format),
	}, nil
}

func (r *resolver) resolveReal(ctx context.Context, specifier string, parent m.Parent) (m.Address, error) {
	target, err := r.host.ResolveReal(ctx, specifier, parent)
	if err != nil {
		return nil, err
	}

	return target, nil
}

func (r *resolver) trace(ctx context.Context, event m.TraceEvent) {
	if r.tracer != nil {
		r.tracer.Trace(ctx, event)
	}
}
