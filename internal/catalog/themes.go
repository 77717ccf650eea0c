package catalog

// Theme is a named accent colour pair.
type Theme struct {
	ID      string
	Name    string
	Emoji   string
	Accent  string
	Accent2 string
}

var themes = []Theme{
	{ID: "indigo", Name: "Indigo", Emoji: "💎", Accent: "#6366f1", Accent2: "#a855f7"},
	{ID: "cyan", Name: "Cyan", Emoji: "🌊", Accent: "#06b6d4", Accent2: "#22d3ee"},
	{ID: "emerald", Name: "Emerald", Emoji: "🌲", Accent: "#10b981", Accent2: "#34d399"},
	{ID: "rose", Name: "Rose", Emoji: "🌸", Accent: "#f43f5e", Accent2: "#fb7185"},
	{ID: "amber", Name: "Amber", Emoji: "🔥", Accent: "#f59e0b", Accent2: "#fbbf24"},
	{ID: "violet", Name: "Violet", Emoji: "🔮", Accent: "#8b5cf6", Accent2: "#c084fc"},
	{ID: "sky", Name: "Sky", Emoji: "☁️", Accent: "#0ea5e9", Accent2: "#38bdf8"},
	{ID: "lime", Name: "Lime", Emoji: "🍀", Accent: "#84cc16", Accent2: "#a3e635"},
}

// Themes returns every theme.
func Themes() []Theme {
	return themes
}

// ThemeByID returns the theme with the given id, or the first theme.
func ThemeByID(id string) Theme {
	for _, t := range themes {
		if t.ID == id {
			return t
		}
	}
	return themes[0]
}
