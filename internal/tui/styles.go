package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorSuccess = lipgloss.Color("#00E676")
	colorDanger  = lipgloss.Color("#FF5252")
	colorMuted   = lipgloss.Color("#636363")
	colorWhite   = lipgloss.Color("#EEEEEE")
	colorSurface = lipgloss.Color("#1E1E2E")
)

const (
	iconRunning = "●"
	iconIdle    = "○"
)

var (
	styleHeader = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorPrimary).
			Bold(true).
			Padding(0, 1)

	styleStopwatch = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true).
			Padding(1, 2)

	styleStopwatchRunning = styleStopwatch.
				Foreground(colorSuccess)

	styleStatusRunning = lipgloss.NewStyle().
				Foreground(colorSuccess)

	styleStatusIdle = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleEntryTime = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleEntryTask = lipgloss.NewStyle().
			Foreground(colorWhite)

	styleTotal = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger)

	styleNotice = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)
