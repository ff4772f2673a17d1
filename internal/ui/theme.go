package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the UI.
type Theme struct {
	Name string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Border  string

	SelectionBg   string
	SelectionText string
}

// Styles bundles the lipgloss styles derived from a theme.
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Danger   lipgloss.Style
	Panel    lipgloss.Style
	Selected lipgloss.Style
	Footer   lipgloss.Style
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.SelectionText)).
			Background(lipgloss.Color(t.SelectionBg)),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
	}
}

var themes = map[string]Theme{
	"Dracula": {
		Name:          "Dracula",
		Text:          "#F8F8F2",
		Muted:         "#6272A4",
		Accent:        "#BD93F9",
		Success:       "#50FA7B",
		Warning:       "#F1FA8C",
		Danger:        "#FF5555",
		Border:        "#44475A",
		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",
	},
	"Plain": {
		Name:          "Plain",
		Text:          "#D0D0D0",
		Muted:         "#808080",
		Accent:        "#5FAFFF",
		Success:       "#5FAF5F",
		Warning:       "#D7AF5F",
		Danger:        "#D75F5F",
		Border:        "#585858",
		SelectionBg:   "#303030",
		SelectionText: "#FFFFFF",
	},
}

// GetTheme returns the named theme, falling back to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["Dracula"]
}

// statusStyle maps a crawl or document status to a themed style.
func (m Model) statusStyle(status string) lipgloss.Style {
	switch status {
	case "completed", "validated":
		return m.styles.Success
	case "failed", "rejected":
		return m.styles.Danger
	case "running", "queued", "pending":
		return m.styles.Warning
	}
	return m.styles.Text
}
