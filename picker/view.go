package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jonwraymond/appdiscovery/discovery"
)

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	iconStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	outputStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).PaddingLeft(2)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const ellipsis = "…"

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteRune('\n')
	b.WriteString(m.viewContent())
	return b.String()
}

// viewContent renders the result list or a status message.
func (m Model) viewContent() string {
	switch m.state {
	case stateIdle:
		return dimStyle.Render("Type to search")
	case stateLoading:
		if len(m.results) > 0 {
			return m.viewList()
		}
		return dimStyle.Render("Searching...")
	case stateEmpty:
		return dimStyle.Render("No matches")
	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)
	case stateCancelled:
		return dimStyle.Render("Cancelled")
	case stateLoaded:
		return m.viewList()
	default:
		return ""
	}
}

// viewList renders the results with a selection marker, followed by the
// output of an expanded plugin result.
func (m Model) viewList() string {
	rows := make([]string, 0, len(m.results))
	for i, r := range m.results {
		if i >= m.listHeight() {
			break
		}
		line := m.row(r)
		if i == m.selection {
			rows = append(rows, selectedStyle.Render("> ")+line)
		} else {
			rows = append(rows, normalStyle.Render("  ")+line)
		}
	}

	if m.expanded && m.selection >= 0 && m.selection < len(m.results) {
		if out := m.results[m.selection].Plugin; out != nil {
			rows = append(rows, outputStyle.Render(out.Output))
		}
	}
	return strings.Join(rows, "\n")
}

// row renders one result, truncated to the terminal width.
func (m Model) row(r discovery.Result) string {
	width := m.width - 2 // selection marker
	if width <= 0 {
		width = 78
	}

	switch r.Kind {
	case discovery.KindPlugin:
		label := "[" + r.Title() + "]"
		preview := ""
		if r.Plugin != nil {
			label = "[" + r.Plugin.Icon + "] " + r.Plugin.Name
			preview = firstLine(r.Plugin.Output)
		}
		rest := width - runewidth.StringWidth(label) - 1
		return iconStyle.Render(label) + " " + pathStyle.Render(Truncate(preview, rest))

	default:
		name := r.Title()
		path := ""
		if r.App != nil {
			path = r.App.Path
		}
		name = Truncate(name, width)
		rest := width - runewidth.StringWidth(name) - 2
		if path == "" || rest < 4 {
			return normalStyle.Render(name)
		}
		return normalStyle.Render(name) + "  " + pathStyle.Render(MiddleTruncate(path, rest))
	}
}

// Truncate cuts s to maxWidth display columns, ending with an ellipsis when
// anything was dropped.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// MiddleTruncate shortens s to maxWidth display columns by replacing its
// middle with an ellipsis, keeping both ends visible.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}

	remaining := maxWidth - 1
	headWidth := (remaining + 1) / 2
	tailWidth := remaining / 2

	head := runewidth.Truncate(s, headWidth, "")
	runes := []rune(s)
	w, start := 0, len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > tailWidth {
			break
		}
		w += rw
		start = i
	}
	return head + ellipsis + string(runes[start:])
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " " + ellipsis
	}
	return s
}
