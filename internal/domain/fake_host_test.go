package domain

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	m "importmock.dev/pkg/importmock/internal/model"
)

// fakeHost resolves specifiers against an in-memory set of files addressed
// as file:///<path>. Relative specifiers resolve against the parent's
// directory, bare ones against /node_modules. "node:" specifiers are
// builtins and resolve to themselves.
type fakeHost struct {
	files map[string]string

	mu         sync.Mutex
	resolveLog []string
	loadLog    []string
	resolveErr error
	loadErr    error
	formats    map[string]m.Format
}

func newFakeHost(files map[string]string) *fakeHost {
	return &fakeHost{files: files}
}

func (h *fakeHost) ResolveReal(_ context.Context, specifier string, parent m.Parent) (m.RealAddress, error) {
	h.mu.Lock()
	h.resolveLog = append(h.resolveLog, specifier)
	h.mu.Unlock()

	if h.resolveErr != nil {
		return m.RealAddress{}, h.resolveErr
	}

	if strings.HasPrefix(specifier, "node:") {
		return m.RealAddress{URL: specifier, Format: m.FormatBuiltin}, nil
	}

	dir := "/"
	if addr, ok := parent.Get(); ok {
		dir = path.Dir(strings.TrimPrefix(addr.String(), "file://"))
	}

	var p string

	switch {
	case strings.HasPrefix(specifier, "/"):
		p = specifier
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"):
		p = path.Join(dir, specifier)
	default:
		p = path.Join("/node_modules", specifier, "index.js")
	}

	if _, ok := h.files[p]; !ok {
		return m.RealAddress{}, errors.Wrapf(m.ErrModuleNotFound, "%s from %s", specifier, dir)
	}

	format := m.FormatModule
	if override, ok := h.formats[p]; ok {
		format = override
	}

	return m.RealAddress{URL: "file://" + p, Format: format}, nil
}

func (h *fakeHost) LoadReal(_ context.Context, addr m.RealAddress) (m.Module, error) {
	h.mu.Lock()
	h.loadLog = append(h.loadLog, addr.URL)
	h.mu.Unlock()

	if h.loadErr != nil {
		return m.Module{}, h.loadErr
	}

	source, ok := h.files[strings.TrimPrefix(addr.URL, "file://")]
	if !ok {
		return m.Module{}, errors.Wrap(m.ErrModuleNotFound, addr.URL)
	}

	return m.Module{Address: addr, Source: []byte(source), Format: addr.Format}, nil
}

func (h *fakeHost) loads() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.loadLog...)
}

type recordingTracer struct {
	mu     sync.Mutex
	events []m.TraceEvent
}

func (r *recordingTracer) Trace(_ context.Context, event m.TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func realAddr(url string) m.RealAddress {
	return m.RealAddress{URL: url, Format: m.FormatModule}
}

func mustRegistry(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, entries ...m.MockEntry) *Registry {
	t.Helper()

	registry, err := NewRegistryBuilder().MockEntries(entries...).Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	return registry
}
