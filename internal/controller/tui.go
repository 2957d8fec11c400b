package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "importmock.dev/pkg/importmock/internal/model"
)

// TUI implements UI for interactive terminals. Module graphs too long for the
// screen are shown in a Bubble Tea pager; everything else is printed by the
// embedded SimpleUI.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a new TUI writing to cmd's output.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd, true)}
}

// DisplayGraph pages through the loaded modules. Sources are always printed
// plainly.
func (p *TUI) DisplayGraph(ctx context.Context, graph m.Graph, printSource bool) error {
	if printSource {
		return p.SimpleUI.DisplayGraph(ctx, graph, printSource)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	output := p.cmd.OutOrStdout()
	model := newGraphModel(graph)

	// Get initial terminal size
	if f, ok := output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	// If list is small, just print and exit
	if !model.needsPagination() {
		p.printf("%s", model.View())
		return nil
	}

	program := tea.NewProgram(model, tea.WithOutput(output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

type pagerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

var pagerKeys = pagerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "bottom"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "u"),
		key.WithHelp("u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "d"),
		key.WithHelp("d", "page down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k pagerKeyMap) helpLine() string {
	bindings := []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Quit}
	parts := make([]string, 0, len(bindings))

	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+": "+help.Desc)
	}

	return strings.Join(parts, " | ")
}

// moduleRow is one loaded module.
type moduleRow struct {
	address string
	format  m.Format
	mocked  bool
	imports int
}

// graphModel is the Bubble Tea model listing the modules of a graph.
type graphModel struct {
	entry    string
	rows     []moduleRow
	mocked   int
	height   int
	width    int
	offset   int // Current scroll offset
	quitting bool
}

func newGraphModel(graph m.Graph) graphModel {
	imports := make(map[string]int, len(graph.Order))
	for _, edge := range graph.Edges {
		imports[edge.From]++
	}

	rows := make([]moduleRow, 0, len(graph.Order))
	mocked := 0

	for _, key := range graph.Order {
		mod := graph.Modules[key]
		row := moduleRow{
			address: key,
			format:  mod.Format,
			mocked:  m.IsSynthetic(mod.Address),
			imports: imports[key],
		}

		if row.mocked {
			mocked++
		}

		rows = append(rows, row)
	}

	return graphModel{entry: graph.Entry, rows: rows, mocked: mocked}
}

func (gm graphModel) Init() tea.Cmd {
	return nil
}

func (gm graphModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		gm.height = msg.Height
		gm.width = msg.Width
		gm.offset = gm.clamp(gm.offset)

		return gm, nil

	case tea.KeyMsg:
		return gm.handleKeyPress(msg)
	}

	return gm, nil
}

func (gm graphModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, pagerKeys.Quit):
		gm.quitting = true
		return gm, tea.Quit
	case key.Matches(msg, pagerKeys.Down):
		gm.offset = gm.clamp(gm.offset + 1)
	case key.Matches(msg, pagerKeys.Up):
		gm.offset = gm.clamp(gm.offset - 1)
	case key.Matches(msg, pagerKeys.Top):
		gm.offset = 0
	case key.Matches(msg, pagerKeys.Bottom):
		gm.offset = gm.maxOffset()
	case key.Matches(msg, pagerKeys.PageDown):
		gm.offset = gm.clamp(gm.offset + gm.itemsPerPage())
	case key.Matches(msg, pagerKeys.PageUp):
		gm.offset = gm.clamp(gm.offset - gm.itemsPerPage())
	}

	return gm, nil
}

func (gm graphModel) clamp(offset int) int {
	if offset < 0 {
		return 0
	}

	if maxOffset := gm.maxOffset(); offset > maxOffset {
		return maxOffset
	}

	return offset
}

// itemsPerPage calculates how many modules fit on screen.
func (gm graphModel) itemsPerPage() int {
	if gm.height == 0 {
		return 10
	}

	// Header box, entry line, totals and pager footer.
	reserved := 11

	available := gm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

func (gm graphModel) maxOffset() int {
	maxOff := len(gm.rows) - gm.itemsPerPage()
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

func (gm graphModel) needsPagination() bool {
	return gm.height > 0 && len(gm.rows) > gm.itemsPerPage()
}

func (gm graphModel) View() string {
	if gm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString("║                    importmock - module graph                   ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n\n")

	if len(gm.rows) == 0 {
		b.WriteString("  No modules loaded\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  entry: %s\n\n", gm.entry)

	rows := gm.rows
	start, end := 0, len(rows)

	if gm.needsPagination() {
		start = gm.clamp(gm.offset)
		end = min(start+gm.itemsPerPage(), len(rows))
		rows = rows[start:end]
	}

	for _, row := range rows {
		marker := "    "
		if row.mocked {
			marker = mockedStyle.Render("mock")
		}

		fmt.Fprintf(&b, "  %s %s (%s) imports=%d\n", marker, row.address, formatLabel(row.format), row.imports)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total: %d module(s), %d mocked\n", len(gm.rows), gm.mocked)

	if gm.needsPagination() {
		perPage := gm.itemsPerPage()
		fmt.Fprintf(&b, "\n  Page %d/%d | Showing %d-%d of %d\n",
			start/perPage+1, (len(gm.rows)+perPage-1)/perPage, start+1, end, len(gm.rows))
		fmt.Fprintf(&b, "  %s\n", pagerKeys.helpLine())
	}

	return b.String()
}
