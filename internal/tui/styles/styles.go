package styles

import (
	"github.com/charmbracelet/lipgloss"

	"nathanbeddoewebdev/reseed/internal/domain"
)

// --- Typography ---

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Label is used for field names in summaries.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	Value = lipgloss.NewStyle().
		Foreground(White)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// Card is a rounded-border panel used for the plan summary.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(DimGray).
	Padding(0, 1)

// StatusStyle returns the style for an instance lifecycle state.
func StatusStyle(state string) lipgloss.Style {
	switch state {
	case domain.InstanceStateRunning:
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case domain.InstanceStatePending:
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case domain.InstanceStateShuttingDown, "stopping":
		return lipgloss.NewStyle().Foreground(Yellow)
	case domain.InstanceStateTerminated, "stopped":
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a colored dot followed by the state.
func StatusIndicator(state string) string {
	style := StatusStyle(state)
	return style.Render("●") + " " + style.Render(state)
}

// Field renders a "label: value" line.
func Field(label, value string) string {
	return Label.Render(label+":") + " " + Value.Render(value)
}
