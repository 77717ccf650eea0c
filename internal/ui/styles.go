package ui

import (
	"github.com/charmbracelet/lipgloss"

	"remindly/internal/catalog"
	"remindly/internal/reminder"
)

var (
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24"))
	bannerStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("214")).Padding(0, 1)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	tierStyles = map[reminder.Tier]lipgloss.Style{
		reminder.TierExpired:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#dc2626")).Bold(true).Padding(0, 1),
		reminder.TierToday:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#ea580c")).Bold(true).Padding(0, 1),
		reminder.TierCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#f97316")).Padding(0, 1),
		reminder.TierWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#eab308")).Padding(0, 1),
		reminder.TierSafe:     lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#22c55e")).Padding(0, 1),
	}
)

func badge(st reminder.Status) string {
	return tierStyles[st.Tier].Render(st.Label)
}

func titleStyle(t catalog.Theme) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Accent))
}

func accentStyle(t catalog.Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent2))
}
