package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle styles the application title line.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// StatusTextStyle styles the current status message.
	StatusTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	// SpeedStyle styles the download speed readout.
	SpeedStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle styles fatal error output.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
