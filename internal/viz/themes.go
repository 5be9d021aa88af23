package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the terminal chrome. Atom and bond colours come from the
// scene and are not themed.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:       "default",
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Accent:     lipgloss.Color("#ffff00"),
		Border:     lipgloss.Color("#444466"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:       "retro",
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Accent:     lipgloss.Color("#88ff88"),
		Border:     lipgloss.Color("#00aa00"),
		Warning:    lipgloss.Color("#ffff00"),
		Error:      lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Accent:     lipgloss.Color("#ffd700"),
		Border:     lipgloss.Color("#0077be"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	ThemePaper = Theme{
		Name:       "paper",
		Background: lipgloss.Color("#fafafa"),
		Text:       lipgloss.Color("#202020"),
		Muted:      lipgloss.Color("#909090"),
		Accent:     lipgloss.Color("#d14000"),
		Border:     lipgloss.Color("#c0c0c0"),
		Warning:    lipgloss.Color("#b07000"),
		Error:      lipgloss.Color("#c00000"),
	}

	Themes = []Theme{ThemeDefault, ThemeRetro, ThemeOcean, ThemePaper}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeDefault
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
