package controller

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "importmock.dev/pkg/importmock/internal/model"
)

var (
	matchedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	skippedStyle = lipgloss.NewStyle().Faint(true)
	mockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// SimpleUI implements UI by writing to the cobra command's output.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool
	mu     sync.Mutex
}

// NewSimpleUI creates a new SimpleUI. styled enables terminal colors.
func NewSimpleUI(cmd *cobra.Command, styled bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, styled: styled}
}

// NewUI picks the UI for cmd's output: the pager on terminals, plain text
// otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd, false)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Trace prints one MATCHED or SKIP line. It is safe for concurrent use.
func (s *SimpleUI) Trace(ctx context.Context, event m.TraceEvent) {
	if err := ctx.Err(); err != nil {
		return
	}

	var line string

	switch event.Kind {
	case m.TraceMatched:
		line = fmt.Sprintf("%s specifier=%s source=%s mock=%s",
			s.style(matchedStyle, event.Kind.String()), event.Specifier, event.Importer, event.Import)
	default:
		line = s.style(skippedStyle, fmt.Sprintf("%s specifier=%s source=%s",
			event.Kind.String(), event.Specifier, event.Importer))
	}

	s.printf("%s\n", line)
}

// DisplayGraph prints the loaded modules in load order.
func (s *SimpleUI) DisplayGraph(ctx context.Context, graph m.Graph, printSource bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderGraphTable(graph))

	if !printSource {
		return nil
	}

	for _, key := range graph.Order {
		mod := graph.Modules[key]
		if mod.Format == m.FormatBuiltin {
			continue
		}

		s.printf("\n--- %s (%s)\n%s", key, mod.Format, mod.Source)

		if len(mod.Source) > 0 && mod.Source[len(mod.Source)-1] != '\n' {
			s.printf("\n")
		}
	}

	return nil
}

func renderGraphTable(graph m.Graph) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Address", "Format", "Mocked"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	for _, key := range graph.Order {
		mod := graph.Modules[key]

		mocked := "no"
		if m.IsSynthetic(mod.Address) {
			mocked = "yes"
		}

		table.Append([]string{key, string(mod.Format), mocked})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Modules %d", len(graph.Order)),
		"",
		fmt.Sprintf("%d", len(graph.Mocked())),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayResolution prints the address a specifier resolved to.
func (s *SimpleUI) DisplayResolution(ctx context.Context, specifier string, addr m.Address) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := addr.String()
	if m.IsSynthetic(addr) {
		target = s.style(mockedStyle, target)
	}

	s.printf("%s -> %s (%s)\n", specifier, target, formatLabel(addr.ModuleFormat()))

	return nil
}

// DisplayRegistry prints every registered mock in registration order.
func (s *SimpleUI) DisplayRegistry(ctx context.Context, entries []m.MockEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Importer", "Import", "Bytes"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, entry := range entries {
		table.Append([]string{string(entry.Importer), string(entry.Import), fmt.Sprintf("%d", len(entry.Source))})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Mocks %d", len(entries)), "", ""})
	table.Render()

	s.printf("%s", tableBuffer.String())

	return nil
}

// DisplayDiff prints a unified diff from the real module to its replacement.
func (s *SimpleUI) DisplayDiff(ctx context.Context, realModule, mockModule m.Module) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(realModule.Source)),
		B:        difflib.SplitLines(string(mockModule.Source)),
		FromFile: realModule.Address.String(),
		ToFile:   mockModule.Address.String(),
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("render diff: %w", err)
	}

	if diff == "" {
		s.printf("replacement is identical to %s\n", realModule.Address)
		return nil
	}

	s.printf("%s", diff)

	return nil
}

func (s *SimpleUI) style(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}

	return style.Render(text)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func formatLabel(format m.Format) string {
	if format == "" {
		return unknownFormatLabel
	}

	return string(format)
}

const unknownFormatLabel = "unknown"
