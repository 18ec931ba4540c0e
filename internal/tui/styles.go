package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xurxxo/termfolio/internal/sequence"
)

var (
	promptGreen = lipgloss.Color("#8BC34A")
	textGray    = lipgloss.Color("#d0d0d0")
	boxCyan     = lipgloss.Color("#4db6ac")
	okGreen     = lipgloss.Color("#66bb6a")
	barYellow   = lipgloss.Color("#ffd54f")
	errRed      = lipgloss.Color("#e53935")
	mutedGray   = lipgloss.Color("#6c7a89")
)

// Styles maps line styles to terminal colors.
type Styles struct {
	Command lipgloss.Style
	Output  lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Loading lipgloss.Style
	Error   lipgloss.Style
	Label   lipgloss.Style
	Help    lipgloss.Style
	Content lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Command: lipgloss.NewStyle().Foreground(promptGreen).Bold(true),
		Output:  lipgloss.NewStyle().Foreground(textGray),
		Info:    lipgloss.NewStyle().Foreground(boxCyan),
		Success: lipgloss.NewStyle().Foreground(okGreen).Bold(true),
		Loading: lipgloss.NewStyle().Foreground(barYellow),
		Error:   lipgloss.NewStyle().Foreground(errRed).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(promptGreen),
		Help:    lipgloss.NewStyle().Foreground(mutedGray).Italic(true),
		Content: lipgloss.NewStyle().Foreground(textGray).PaddingLeft(2),
	}
}

// Render draws one scripted line. Blank lines render as an empty row.
func (s Styles) Render(line sequence.Line) string {
	switch line.Style {
	case sequence.StyleBlank:
		return ""
	case sequence.StyleCommand:
		return s.Command.Render(line.Text)
	case sequence.StyleInfo:
		return s.Info.Render(line.Text)
	case sequence.StyleSuccess:
		return s.Success.Render(line.Text)
	case sequence.StyleLoading:
		return s.Loading.Render(line.Text)
	case sequence.StyleError:
		return s.Error.Render(line.Text)
	default:
		return s.Output.Render(line.Text)
	}
}
