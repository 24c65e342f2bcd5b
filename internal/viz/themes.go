package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitfield/internal/field"
)

// Theme defines the panel colours and the background the field is composited over.
type Theme struct {
	Name      string
	Canvas    field.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeViolet = Theme{
		Name:      "violet",
		Canvas:    field.MustHex("#0A0A12"),
		Primary:   lipgloss.Color("#8b5cf6"),
		Secondary: lipgloss.Color("#a78bfa"),
		Accent:    lipgloss.Color("#ff6b35"),
		Text:      lipgloss.Color("#f8fafc"),
		Muted:     lipgloss.Color("#94a3b8"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeEmber = Theme{
		Name:      "ember",
		Canvas:    field.MustHex("#120806"),
		Primary:   lipgloss.Color("#ff6b35"), // atomic orange
		Secondary: lipgloss.Color("#ffb38a"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#fff5f0"),
		Muted:     lipgloss.Color("#8b6b5c"),
		Warning:   lipgloss.Color("#ffc048"),
		Error:     lipgloss.Color("#ff4757"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Canvas:    field.MustHex("#001a33"),
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Canvas:    field.MustHex("#001100"),
		Primary:   lipgloss.Color("#00ff00"), // green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Canvas:    field.MustHex("#000000"),
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeViolet,
		ThemeEmber,
		ThemeOcean,
		ThemeRetro,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to violet.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeViolet
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
