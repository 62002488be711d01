package menu

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title   lipgloss.Style
	help    lipgloss.Style
	err     lipgloss.Style
	success lipgloss.Style
}

// newStyles binds the menu styles to w so color output follows whether w is a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		help:    r.NewStyle().Faint(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("9")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}
