package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006600", Dark: "#55CC55"})
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AA0000", Dark: "#FF6666"})
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#777777"})
	warnBox      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Padding(0, 1)
)

// DiffView renders a line diff preview ("-", "+" and " " prefixed lines)
// under a header naming both sides.
func DiffView(preview string, added, removed int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Quick Fix Proposed Changes"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("--- Original  +++ Fixed by Claude  (+%d -%d)", added, removed)))
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimSuffix(preview, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(addedStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(removedStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Warning renders msg in a bordered warning box of the given width.
func Warning(msg string, width int) string {
	boxWidth := width - 4
	if boxWidth < 20 {
		boxWidth = 20
	}
	return warnBox.Width(boxWidth).Render(msg)
}

// Marker returns a highlighted marker when on is true, else padding of the
// same width. Used for the selected agent in listings.
func Marker(on bool) string {
	if on {
		return addedStyle.Render("*")
	}
	return " "
}
