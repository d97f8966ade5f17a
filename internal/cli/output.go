package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	styleError     = lipgloss.NewStyle().Foreground(colorRed)
	styleLabel     = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand   = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner   = lipgloss.NewStyle().Foreground(colorCyan)
)

// labelWidth aligns the values of field lines.
const labelWidth = 14

// printer writes styled command output. Logs go to the CLI logger, results
// go through a printer.
type printer struct {
	w io.Writer
}

func (p printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p printer) blank() {
	fmt.Fprintln(p.w)
}

func (p printer) title(s string) {
	p.println(styleTitle.Render(s))
}

func (p printer) success(format string, args ...any) {
	p.println(styleSuccess.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.println(styleError.Render("✗") + " " + fmt.Sprintf(format, args...))
}

func (p printer) warn(format string, args ...any) {
	p.println(styleWarning.Render("!") + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.println(styleLabel.Render("›") + " " + fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	p.println("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written artifact path.
func (p printer) file(path string) {
	p.println("  " + styleDim.Render("→") + " " + styleValue.Render(path))
}

// field prints a label and its value in aligned columns.
func (p printer) field(label, value string) {
	p.println(styleLabel.Width(labelWidth).Render(label) + " " + styleValue.Render(value))
}

// next suggests a follow-up command.
func (p printer) next(description, cmd string) {
	p.println(styleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// renderSummary describes one render on a single dimmed line.
type renderSummary struct {
	surface     string
	measureHits int
	diagnostics int
	cached      bool
	elapsed     time.Duration
}

func (p printer) summary(s renderSummary) {
	parts := []string{styleDim.Render(s.surface)}
	if s.measureHits > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d/2 passes cached", s.measureHits)))
	}
	if s.diagnostics > 0 {
		parts = append(parts, styleWarning.Render(fmt.Sprintf("%d diagnostics", s.diagnostics)))
	}
	if s.cached {
		parts = append(parts, styleSuccess.Render("cached"))
	} else {
		parts = append(parts, styleLabel.Render("fresh "+s.elapsed.Round(time.Millisecond).String()))
	}
	p.println("  " + strings.Join(parts, styleDim.Render(" · ")))
}

// styledTable renders rows under headers with the first column highlighted.
// When emphasize reports true for a row, that row is drawn in green.
func styledTable(headers []string, rows [][]string, emphasize func(row int) bool) string {
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return header
			case emphasize != nil && emphasize(row):
				return cell.Foreground(colorGreen).Bold(true)
			case col == 0:
				return cell.Foreground(colorCyan)
			}
			return cell.Foreground(colorWhite)
		}).
		Render()
}
