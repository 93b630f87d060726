package ui

import "charm.land/lipgloss/v2"

// Colors shared by the table renderer and command output.
var (
	success = lipgloss.Color("82")
	failure = lipgloss.Color("196")
	muted   = lipgloss.Color("240")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)

	successStyle = lipgloss.NewStyle().Foreground(success)
	failureStyle = lipgloss.NewStyle().Foreground(failure)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
)

// colorEnabled follows the "color" setting. Toggled once at startup.
var colorEnabled = true

// SetColorEnabled turns styled output on or off for the process.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// Success marks positive outcomes, e.g. the active org.
func Success(s string) string {
	if !colorEnabled {
		return s
	}
	return successStyle.Render(s)
}

// Error marks failures in human-readable output.
func Error(s string) string {
	if !colorEnabled {
		return s
	}
	return failureStyle.Render(s)
}

// Muted renders secondary details like timestamps.
func Muted(s string) string {
	if !colorEnabled {
		return s
	}
	return mutedStyle.Render(s)
}
