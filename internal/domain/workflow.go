package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"

	"importmock.dev/pkg/importmock/internal/adapter"
	"importmock.dev/pkg/importmock/internal/controller"
	m "importmock.dev/pkg/importmock/internal/model"
)

// ErrNoMock is returned by Diff when the import is not mocked for the parent.
var ErrNoMock = errors.New("no mock applies")

// HostArgs selects the host the workflow runs against.
type HostArgs struct {
	Manifest string
	Host     adapter.HostOptions
}

// RunArgs contains the arguments for walking a module graph.
type RunArgs struct {
	HostArgs
	Entry       string
	Parallel    int
	Trace       bool
	PrintSource bool
}

// ResolveArgs contains the arguments for resolving one specifier.
type ResolveArgs struct {
	HostArgs
	Specifier string
	Parent    string // path or address of the importing module; empty for none
	Trace     bool
}

// DiffArgs contains the arguments for comparing a mock with the real module.
type DiffArgs struct {
	HostArgs
	Specifier string
	Parent    string
}

// ListArgs contains the arguments for listing the registry.
type ListArgs struct {
	Manifest string
}

// Workflow implements the importmock commands on top of the hooks.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	Resolve(ctx context.Context, args ResolveArgs) error
	Diff(ctx context.Context, args DiffArgs) error
	List(ctx context.Context, args ListArgs) error
}

// HostFactory builds the real module host for a set of options.
type HostFactory func(opts adapter.HostOptions) adapter.Host

type workflow struct {
	manifests adapter.ManifestStore
	newHost   HostFactory
	scanner   adapter.ImportScanner
	ui        controller.UI
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	manifests adapter.ManifestStore,
	newHost HostFactory,
	scanner adapter.ImportScanner,
	ui controller.UI,
) Workflow {
	return &workflow{
		manifests: manifests,
		newHost:   newHost,
		scanner:   scanner,
		ui:        ui,
	}
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	hooks, err := w.hooks(args.HostArgs, args.Trace)
	if err != nil {
		return err
	}

	graph, err := NewWalker(hooks, w.scanner, args.Parallel).Walk(ctx, args.Entry)
	if err != nil {
		slog.Error("module graph walk failed", "entry", args.Entry, "error", err)
		return err
	}

	slog.Info("module graph walked", "entry", graph.Entry, "modules", len(graph.Order), "mocked", len(graph.Mocked()))

	return w.ui.DisplayGraph(ctx, graph, args.PrintSource)
}

func (w *workflow) Resolve(ctx context.Context, args ResolveArgs) error {
	hooks, err := w.hooks(args.HostArgs, args.Trace)
	if err != nil {
		return err
	}

	parent, err := w.parent(ctx, hooks, args.Parent)
	if err != nil {
		return err
	}

	addr, err := hooks.Resolve(ctx, args.Specifier, parent)
	if err != nil {
		return err
	}

	return w.ui.DisplayResolution(ctx, args.Specifier, addr)
}

func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	registry, err := w.registry(args.Manifest)
	if err != nil {
		return err
	}

	host := w.newHost(args.Host)
	hooks := NewHooks(registry, host, nil)

	parent, err := w.parent(ctx, hooks, args.Parent)
	if err != nil {
		return err
	}

	addr, err := hooks.Resolve(ctx, args.Specifier, parent)
	if err != nil {
		return err
	}

	if !m.IsSynthetic(addr) {
		return errors.Wrapf(ErrNoMock, "%q resolves to %s", args.Specifier, addr)
	}

	target, err := host.ResolveReal(ctx, args.Specifier, parent)
	if err != nil {
		return err
	}

	realModule, err := host.LoadReal(ctx, target)
	if err != nil {
		return err
	}

	mockModule, err := hooks.Load(ctx, addr)
	if err != nil {
		return err
	}

	return w.ui.DisplayDiff(ctx, realModule, mockModule)
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	registry, err := w.registry(args.Manifest)
	if err != nil {
		return err
	}

	return w.ui.DisplayRegistry(ctx, registry.Entries())
}

func (w *workflow) hooks(args HostArgs, trace bool) (Hooks, error) {
	registry, err := w.registry(args.Manifest)
	if err != nil {
		return nil, err
	}

	var tracer Tracer
	if trace {
		tracer = w.ui
	}

	return NewHooks(registry, w.newHost(args.Host), tracer), nil
}

// registry builds the registry from the manifest. An empty path yields an
// empty registry, which turns every hook into a pass-through.
func (w *workflow) registry(manifest string) (*Registry, error) {
	if manifest == "" {
		return EmptyRegistry(), nil
	}

	entries, err := w.manifests.LoadManifest(manifest)
	if err != nil {
		return nil, err
	}

	registry, err := NewRegistryBuilder().MockEntries(entries...).Build()
	if err != nil {
		return nil, fmt.Errorf("build registry from %s: %w", manifest, err)
	}

	slog.Debug("registry loaded", "manifest", manifest, "mocks", registry.Len())

	return registry, nil
}

// parent resolves the importing module without a parent of its own, so it
// can be given as a plain path.
func (w *workflow) parent(ctx context.Context, hooks Hooks, parent string) (m.Parent, error) {
	if parent == "" {
		return m.NoParent(), nil
	}

	addr, err := hooks.Resolve(ctx, parent, m.NoParent())
	if err != nil {
		return m.Parent{}, fmt.Errorf("resolve parent %q: %w", parent, err)
	}

	return m.ParentOf(addr), nil
}
