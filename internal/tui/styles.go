// Package tui holds the bubbletea models behind composerctl's interactive views.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the views.
const (
	ColorHeader  = lipgloss.Color("39")
	ColorMuted   = lipgloss.Color("241")
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorInfo    = lipgloss.Color("75")
	ColorFocus   = lipgloss.Color("212")
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	selectedStyle = lipgloss.NewStyle().Foreground(ColorFocus).Bold(true)
	calloutStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Padding(0, 1)
	buttonStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(ColorMuted)
	activeButtonStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(ColorFocus).Bold(true).Underline(true)
)

func severityStyle(sev string) lipgloss.Style {
	switch sev {
	case "error":
		return lipgloss.NewStyle().Foreground(ColorError)
	case "warning":
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorInfo)
	}
}
