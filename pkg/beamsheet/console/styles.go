package console

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#101F38")
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#8A94A6")
	danger  = lipgloss.Color("#e53935")
	warning = lipgloss.Color("#FFC107")
)

// Styles holds the console styles.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	On      lipgloss.Style
	Off     lipgloss.Style
	Pending lipgloss.Style
	Status  lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Panel   lipgloss.Style
}

// DefaultStyles returns the console styles.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(primary).Padding(0, 1),
		Label:   lipgloss.NewStyle().Bold(true),
		On:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		Off:     lipgloss.NewStyle().Foreground(muted),
		Pending: lipgloss.NewStyle().Foreground(accent),
		Status:  lipgloss.NewStyle().Italic(true),
		Warning: lipgloss.NewStyle().Foreground(warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(danger),
		Help:    lipgloss.NewStyle().Foreground(muted),
		Panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}
