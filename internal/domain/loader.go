package domain

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"importmock.dev/pkg/importmock/internal/adapter"
	m "importmock.dev/pkg/importmock/internal/model"
)

// Loader is the load stage: it serves replacement source for synthetic
// addresses and hands every other address to the real loader.
type Loader interface {
	Load(ctx context.Context, addr m.Address) (m.Module, error)
}

type loader struct {
	registry *Registry
	host     adapter.RealLoader
}

// NewLoader constructs the load stage.
func NewLoader(registry *Registry, host adapter.RealLoader) Loader {
	return &loader{
		registry: registry,
		host:     host,
	}
}

func (l *loader) Load(ctx context.Context, addr m.Address) (m.Module, error) {
	switch a := addr.(type) {
	case m.SyntheticAddress:
		return l.loadSynthetic(a)
	case m.RealAddress:
		return l.host.LoadReal(ctx, a)
	case nil:
		return m.Module{}, errors.New("load called with a nil address")
	default:
		return m.Module{}, errors.Newf("unsupported address type %T", addr)
	}
}

func (l *loader) loadSynthetic(addr m.SyntheticAddress) (m.Module, error) {
	if addr.Importer == "" || addr.Import == "" {
		return m.Module{}, errors.WithHint(
			m.NewConfigurationError(addr.String(), "importer and import keys must be non-empty"),
			"synthetic addresses are produced by the resolve stage; do not build them by hand",
		)
	}

	source, ok := l.registry.Lookup(addr.Importer, addr.Import)
	if !ok {
		slog.Error("mock not registered", "address", addr.String())

		return m.Module{}, errors.WithHintf(
			m.NewConfigurationError(addr.String(), "no replacement registered for this pair"),
			"register a mock for import %q under importer %q", addr.Import, addr.Importer,
		)
	}

	format := m.ReplacementFormat(addr.Format)

	slog.Debug("mock loaded", "address", addr.String(), "bytes", len(source))

	return m.Module{
		Address: addr,
		Source:  []byte(source),
		Format:  format,
	}, nil
}
