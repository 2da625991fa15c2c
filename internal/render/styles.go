// Package render formats screening output for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorWarning = lipgloss.Color("#e0af68")
	colorError   = lipgloss.Color("#f7768e")
	colorMuted   = lipgloss.Color("#565f89")
	colorFg      = lipgloss.Color("#c0caf5")
)

var (
	assistantLabel = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	candidateLabel = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	bodyStyle      = lipgloss.NewStyle().Foreground(colorFg).PaddingLeft(2)

	titleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	verdictStyles = map[string]lipgloss.Style{
		"PASS":       lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		"BORDERLINE": lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		"FAIL":       lipgloss.NewStyle().Foreground(colorError).Bold(true),
	}
)
