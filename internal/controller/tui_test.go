package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	m "importmock.dev/pkg/importmock/internal/model"
)

func largeGraph(n int) m.Graph {
	graph := m.Graph{Modules: make(map[string]m.Module)}

	for i := 0; i < n; i++ {
		var addr m.Address = m.RealAddress{URL: fmt.Sprintf("file:///src/module_%03d.js", i), Format: m.FormatModule}
		if i%10 == 0 {
			addr = m.SyntheticAddress{Importer: "src/app.js", Import: m.ImportKey(fmt.Sprintf("src/module_%03d.js", i)), Format: m.FormatModule}
		}

		graph.Order = append(graph.Order, addr.String())
		graph.Modules[addr.String()] = m.Module{Address: addr, Format: m.FormatModule}

		if i > 0 {
			graph.Edges = append(graph.Edges, m.Edge{From: graph.Order[0], Specifier: "./x.js", To: addr.String()})
		}
	}

	graph.Entry = graph.Order[0]

	return graph
}

func TestTUI_DisplayGraph_SmallGraphIsPrinted(t *testing.T) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	tui := NewTUI(cmd)
	if err := tui.DisplayGraph(context.Background(), largeGraph(3), false); err != nil {
		t.Fatalf("DisplayGraph() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"importmock - module graph", "mock:src/app.js,src/module_000.js", "file:///src/module_002.js", "Total: 3 module(s), 1 mocked"} {
		if !strings.Contains(output, want) {
			t.Errorf("DisplayGraph() output missing %q:\n%s", want, output)
		}
	}

	if strings.Contains(output, "Page") {
		t.Error("small graph should not be paginated")
	}
}

func TestGraphModel_Empty(t *testing.T) {
	view := newGraphModel(m.Graph{}).View()
	if !strings.Contains(view, "No modules loaded") {
		t.Errorf("View() = %q", view)
	}
}

func TestGraphModel_CountsImports(t *testing.T) {
	model := newGraphModel(largeGraph(4))

	if model.rows[0].imports != 3 {
		t.Errorf("entry imports = %d, want 3", model.rows[0].imports)
	}

	if !model.rows[0].mocked || model.rows[1].mocked {
		t.Errorf("mocked flags = %v, %v", model.rows[0].mocked, model.rows[1].mocked)
	}

	if model.mocked != 1 {
		t.Errorf("mocked = %d, want 1", model.mocked)
	}
}

func TestGraphModel_Pagination_VisibleContent(t *testing.T) {
	model := newGraphModel(largeGraph(100))
	model.height = 20
	model.width = 80

	if !model.needsPagination() {
		t.Fatal("Expected needsPagination to be true with 100 modules and height 20")
	}

	view := model.View()

	shown := strings.Count(view, "imports=")
	if shown != model.itemsPerPage() {
		t.Errorf("View() shows %d modules, want %d", shown, model.itemsPerPage())
	}

	for _, want := range []string{"Page 1/", "Showing 1-", "↑", "↓", "q: quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q", want)
		}
	}

	if strings.Contains(view, "module_099") {
		t.Error("First page should NOT contain the last module")
	}
}

func TestGraphModel_Navigation(t *testing.T) {
	model := newGraphModel(largeGraph(100))
	model.height = 20

	press := func(gm graphModel, key string) graphModel {
		t.Helper()

		var msg tea.KeyMsg
		switch key {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}

		next, _ := gm.Update(msg)

		return next.(graphModel)
	}

	model = press(model, "j")
	model = press(model, "down")
	if model.offset != 2 {
		t.Errorf("offset after two downs = %d, want 2", model.offset)
	}

	model = press(model, "k")
	model = press(model, "k")
	model = press(model, "k")
	if model.offset != 0 {
		t.Errorf("offset must not go below zero, got %d", model.offset)
	}

	model = press(model, "G")
	if model.offset != model.maxOffset() {
		t.Errorf("G offset = %d, want %d", model.offset, model.maxOffset())
	}

	if !strings.Contains(model.View(), "module_099") {
		t.Error("Last page should contain the last module")
	}

	model = press(model, "d")
	if model.offset != model.maxOffset() {
		t.Errorf("page down past the end = %d, want %d", model.offset, model.maxOffset())
	}

	model = press(model, "g")
	if model.offset != 0 {
		t.Errorf("g offset = %d, want 0", model.offset)
	}

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || !next.(graphModel).quitting {
		t.Error("q should quit")
	}

	if !press(model, "esc").quitting {
		t.Error("esc should quit")
	}
}

func TestGraphModel_WindowResize(t *testing.T) {
	model := newGraphModel(largeGraph(30))
	model.height = 15
	model.offset = model.maxOffset()

	next, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 60})
	resized := next.(graphModel)

	if resized.needsPagination() {
		t.Error("30 modules fit in 60 lines")
	}

	if resized.offset != 0 {
		t.Errorf("offset after growing = %d, want 0", resized.offset)
	}
}
