// Package controller provides output adapters for displaying resolution results.
package controller

import (
	"context"

	m "importmock.dev/pkg/importmock/internal/model"
)

// UI defines how command results are presented.
// Implementations can use different output methods (plain text, styled terminal).
type UI interface {
	// Trace reports a match or skip decision of the resolve stage.
	Trace(ctx context.Context, event m.TraceEvent)
	DisplayGraph(ctx context.Context, graph m.Graph, printSource bool) error
	DisplayResolution(ctx context.Context, specifier string, addr m.Address) error
	DisplayRegistry(ctx context.Context, entries []m.MockEntry) error
	DisplayDiff(ctx context.Context, realModule, mockModule m.Module) error
}
