// Package theme holds the shared lipgloss styles of the terminal UI.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#A78BFA"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
)

func HeadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
}

func StatusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

func CheckedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}
