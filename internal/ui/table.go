package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"remindly/internal/catalog"
	"remindly/internal/reminder"
)

// Table renders reminders as a bordered table for non-interactive output.
func Table(reminders []reminder.Reminder, now time.Time) string {
	tiers := make([]reminder.Tier, 0, len(reminders))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("STATUS", "TITLE", "DATE", "WHEN", "CATEGORY", "PROGRESS", "ID")

	for _, r := range reminders {
		r = r.Normalized()
		d := reminder.DaysUntil(r.Date, now)
		st := reminder.Classify(d)
		tiers = append(tiers, st.Tier)
		cat := catalog.Lookup(r.Category)
		t.Row(
			st.Label,
			r.Title,
			reminder.FormatDate(r.Date),
			relative(d, now),
			cat.Emoji+" "+cat.Label,
			fmt.Sprintf("%.0f%%", reminder.Progress(r.CreatedAt, r.Date, now)),
			r.ID,
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return labelStyle.Padding(0, 1)
		case col == 0 && row >= 0 && row < len(tiers):
			return tierStyles[tiers[row]]
		default:
			return lipgloss.NewStyle().Padding(0, 1)
		}
	})
	return t.String()
}

// relative describes a signed day count in words, e.g. "3 days from now".
func relative(daysUntil int, now time.Time) string {
	if daysUntil == 0 {
		return "today"
	}
	today := reminder.Today(now)
	return humanize.RelTime(today.AddDate(0, 0, daysUntil), today, "ago", "from now")
}
