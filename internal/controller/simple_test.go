package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "importmock.dev/pkg/importmock/internal/model"
)

func newTestUI() (*SimpleUI, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	return NewSimpleUI(cmd, false), &out
}

func TestSimpleUI_Trace(t *testing.T) {
	tests := []struct {
		name  string
		event m.TraceEvent
		want  string
	}{
		{
			name:  "matched",
			event: m.TraceEvent{Kind: m.TraceMatched, Specifier: "./net.js", Importer: "src/app.js", Import: "src/net.js"},
			want:  "MATCHED specifier=./net.js source=src/app.js mock=src/net.js\n",
		},
		{
			name:  "skipped",
			event: m.TraceEvent{Kind: m.TraceSkipped, Specifier: "./util.js", Importer: "src/app.js"},
			want:  "SKIP specifier=./util.js source=src/app.js\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, out := newTestUI()
			ui.Trace(context.Background(), tt.event)

			if out.String() != tt.want {
				t.Errorf("Trace() output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestSimpleUI_DisplayGraph(t *testing.T) {
	mock := m.SyntheticAddress{Importer: "src/app.js", Import: "src/net.js", Format: m.FormatModule}
	app := m.RealAddress{URL: "file:///src/app.js", Format: m.FormatModule}

	graph := m.Graph{
		Entry: app.String(),
		Order: []string{app.String(), mock.String()},
		Modules: map[string]m.Module{
			app.String():  {Address: app, Source: []byte("import net from './net.js';"), Format: m.FormatModule},
			mock.String(): {Address: mock, Source: []byte("export default 'mocked';\n"), Format: m.FormatModule},
		},
	}

	t.Run("table only", func(t *testing.T) {
		ui, out := newTestUI()
		if err := ui.DisplayGraph(context.Background(), graph, false); err != nil {
			t.Fatalf("DisplayGraph() error = %v", err)
		}

		output := out.String()
		for _, want := range []string{"file:///src/app.js", "mock:src/app.js,src/net.js", "yes", "no"} {
			if !strings.Contains(output, want) {
				t.Errorf("DisplayGraph() output missing %q:\n%s", want, output)
			}
		}

		if !strings.Contains(strings.ToUpper(output), "TOTAL MODULES 2") {
			t.Errorf("DisplayGraph() output missing module total:\n%s", output)
		}

		if strings.Contains(output, "export default") {
			t.Errorf("DisplayGraph() printed sources without printSource")
		}
	})

	t.Run("with sources", func(t *testing.T) {
		ui, out := newTestUI()
		if err := ui.DisplayGraph(context.Background(), graph, true); err != nil {
			t.Fatalf("DisplayGraph() error = %v", err)
		}

		output := out.String()
		for _, want := range []string{
			"--- mock:src/app.js,src/net.js (module)\nexport default 'mocked';\n",
			"--- file:///src/app.js (module)\nimport net from './net.js';\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("DisplayGraph() output missing %q:\n%s", want, output)
			}
		}
	})
}

func TestSimpleUI_DisplayResolution(t *testing.T) {
	ui, out := newTestUI()

	addr := m.SyntheticAddress{Importer: "src/app.js", Import: "src/net.js", Format: m.FormatCommonJS}
	if err := ui.DisplayResolution(context.Background(), "./net.js", addr); err != nil {
		t.Fatalf("DisplayResolution() error = %v", err)
	}

	if want := "./net.js -> mock:src/app.js,src/net.js (commonjs)\n"; out.String() != want {
		t.Errorf("DisplayResolution() output = %q, want %q", out.String(), want)
	}
}

func TestSimpleUI_DisplayRegistry(t *testing.T) {
	ui, out := newTestUI()

	entries := []m.MockEntry{
		{Importer: "src/app.js", Import: "src/net.js", Source: "12345"},
		{Importer: "src/net.js", Import: "got", Source: "x"},
	}

	if err := ui.DisplayRegistry(context.Background(), entries); err != nil {
		t.Fatalf("DisplayRegistry() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"src/app.js", "src/net.js", "got", "5"} {
		if !strings.Contains(output, want) {
			t.Errorf("DisplayRegistry() output missing %q:\n%s", want, output)
		}
	}

	if !strings.Contains(strings.ToUpper(output), "TOTAL MOCKS 2") {
		t.Errorf("DisplayRegistry() output missing total:\n%s", output)
	}
}

func TestSimpleUI_DisplayDiff(t *testing.T) {
	realAddr := m.RealAddress{URL: "file:///src/net.js", Format: m.FormatModule}
	mockAddr := m.SyntheticAddress{Importer: "src/app.js", Import: "src/net.js", Format: m.FormatModule}

	t.Run("different", func(t *testing.T) {
		ui, out := newTestUI()

		err := ui.DisplayDiff(context.Background(),
			m.Module{Address: realAddr, Source: []byte("export default 'real';\n")},
			m.Module{Address: mockAddr, Source: []byte("export default 'mocked';\n")},
		)
		if err != nil {
			t.Fatalf("DisplayDiff() error = %v", err)
		}

		output := out.String()
		for _, want := range []string{
			"--- file:///src/net.js",
			"+++ mock:src/app.js,src/net.js",
			"-export default 'real';",
			"+export default 'mocked';",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("DisplayDiff() output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("identical", func(t *testing.T) {
		ui, out := newTestUI()

		source := []byte("export default 1;\n")
		if err := ui.DisplayDiff(context.Background(), m.Module{Address: realAddr, Source: source}, m.Module{Address: mockAddr, Source: source}); err != nil {
			t.Fatalf("DisplayDiff() error = %v", err)
		}

		if !strings.Contains(out.String(), "replacement is identical to file:///src/net.js") {
			t.Errorf("DisplayDiff() output = %q", out.String())
		}
	})
}

func TestSimpleUI_CanceledContext(t *testing.T) {
	ui, out := newTestUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ui.DisplayGraph(ctx, m.Graph{}, false); err == nil {
		t.Fatalf("DisplayGraph() expected context error")
	}

	ui.Trace(ctx, m.TraceEvent{Kind: m.TraceMatched})

	if out.Len() != 0 {
		t.Errorf("canceled UI wrote %q", out.String())
	}
}
