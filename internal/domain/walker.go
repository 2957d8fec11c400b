package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"importmock.dev/pkg/importmock/internal/adapter"
	m "importmock.dev/pkg/importmock/internal/model"
)

// Walker drives a module graph walk through the hooks, the way a host
// module system would: every import edge is resolved, every unique
// address is loaded once.
type Walker interface {
	Walk(ctx context.Context, entry string) (m.Graph, error)
}

type walker struct {
	hooks    Hooks
	scanner  adapter.ImportScanner
	parallel int
}

// NewWalker constructs a Walker. parallel bounds the number of modules
// processed at once; values below one mean unbounded.
func NewWalker(hooks Hooks, scanner adapter.ImportScanner, parallel int) Walker {
	return &walker{
		hooks:    hooks,
		scanner:  scanner,
		parallel: parallel,
	}
}

type resolvedEdge struct {
	specifier string
	to        m.Address
}

type visitResult struct {
	module m.Module
	edges  []resolvedEdge
}

func (w *walker) Walk(ctx context.Context, entry string) (m.Graph, error) {
	entryAddr, err := w.hooks.Resolve(ctx, entry, m.NoParent())
	if err != nil {
		return m.Graph{}, fmt.Errorf("resolve entry %q: %w", entry, err)
	}

	graph := m.Graph{
		Entry:   entryAddr.String(),
		Modules: make(map[string]m.Module),
	}

	seen := map[string]bool{entryAddr.String(): true}
	frontier := []m.Address{entryAddr}

	for depth := 0; len(frontier) > 0; depth++ {
		slog.Debug("walking level", "depth", depth, "modules", len(frontier))

		results, err := w.visitLevel(ctx, frontier)
		if err != nil {
			return m.Graph{}, err
		}

		var next []m.Address

		for i, result := range results {
			from := frontier[i].String()

			graph.Order = append(graph.Order, from)
			graph.Modules[from] = result.module

			for _, edge := range result.edges {
				to := edge.to.String()
				graph.Edges = append(graph.Edges, m.Edge{From: from, Specifier: edge.specifier, To: to})

				if !seen[to] {
					seen[to] = true
					next = append(next, edge.to)
				}
			}
		}

		frontier = next
	}

	return graph, nil
}

// visitLevel loads every module of one level and resolves its imports.
// Results keep the order of addrs.
func (w *walker) visitLevel(ctx context.Context, addrs []m.Address) ([]visitResult, error) {
	results := make([]visitResult, len(addrs))

	group, groupCtx := errgroup.WithContext(ctx)
	if w.parallel > 0 {
		group.SetLimit(w.parallel)
	}

	for i, addr := range addrs {
		i, addr := i, addr
		group.Go(func() error {
			result, err := w.visit(groupCtx, addr)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (w *walker) visit(ctx context.Context, addr m.Address) (visitResult, error) {
	mod, err := w.hooks.Load(ctx, addr)
	if err != nil {
		return visitResult{}, fmt.Errorf("load %s: %w", addr, err)
	}

	mod.Address = addr

	specifiers := w.scanner.Scan(mod)
	edges := make([]resolvedEdge, 0, len(specifiers))

	for _, specifier := range specifiers {
		to, err := w.hooks.Resolve(ctx, specifier, m.ParentOf(addr))
		if err != nil {
			return visitResult{}, fmt.Errorf("resolve %q from %s: %w", specifier, addr, err)
		}

		edges = append(edges, resolvedEdge{specifier: specifier, to: to})
	}

	return visitResult{module: mod, edges: edges}, nil
}
