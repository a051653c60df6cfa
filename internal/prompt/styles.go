package prompt

import "github.com/charmbracelet/lipgloss"

var (
	colorBlue = lipgloss.Color("#3b82f6")
	colorDim  = lipgloss.Color("#6b7280")

	noteStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	plainStyle = lipgloss.NewStyle()

	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
