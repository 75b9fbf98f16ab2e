package cmd

import "github.com/charmbracelet/lipgloss"

// Brand palette.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // violet
	colorAccent  = lipgloss.Color("#F59E0B") // amber
	colorSuccess = lipgloss.Color("#10B981") // emerald
	colorMuted   = lipgloss.Color("#6B7280") // gray-500
	colorText    = lipgloss.Color("#E5E7EB") // gray-200
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	priceCellStyle = cellStyle.
			Align(lipgloss.Right)

	borderStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(8)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	dimmedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
