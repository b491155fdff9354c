package report

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the terminal report.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:    "default",
		Primary: lipgloss.Color("#00ccff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888899"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}
)

var themes = map[string]Theme{
	ThemeDefault.Name: ThemeDefault,
	ThemeMinimal.Name: ThemeMinimal,
}

// GetTheme returns the named theme, falling back to the default.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return ThemeDefault
}

// Styles are the rendered pieces of a report. The zero value renders
// plain text.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Inside  lipgloss.Style
	Outside lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label: lipgloss.NewStyle().Foreground(t.Muted),
		Value: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Inside: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Success),
		Outside: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),
	}
}

// PlainStyles renders without color or decoration.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:  plain,
		Label:   plain,
		Value:   plain,
		Muted:   plain,
		Inside:  plain,
		Outside: plain,
	}
}
