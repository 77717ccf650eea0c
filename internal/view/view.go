// Package view projects a reminder collection into a searched, filtered and
// sorted display list.
package view

import (
	"slices"
	"strings"
	"time"

	"remindly/internal/catalog"
	"remindly/internal/reminder"
)

// Filter keys. Any other value is treated as a category id.
const (
	FilterAll     = "all"
	FilterUrgent  = "urgent"
	FilterExpired = "expired"
)

// Sort keys.
const (
	SortUrgency  = "urgency"
	SortDateAsc  = "date-asc"
	SortDateDesc = "date-desc"
	SortAlpha    = "alpha"
)

// SortKeys lists the sort keys in cycling order.
var SortKeys = []string{SortUrgency, SortDateAsc, SortDateDesc, SortAlpha}

// Query selects and orders reminders.
type Query struct {
	Search string
	Filter string
	Sort   string
}

// Apply returns a new slice holding the reminders matching q, ordered by
// q.Sort. A blank search matches everything; any other search is matched
// verbatim, surrounding spaces included. The input slice is never modified.
func Apply(reminders []reminder.Reminder, q Query, now time.Time) []reminder.Reminder {
	out := make([]reminder.Reminder, 0, len(reminders))
	searching := strings.TrimSpace(q.Search) != ""
	needle := strings.ToLower(q.Search)
	for _, r := range reminders {
		if searching && !matches(r, needle) {
			continue
		}
		if !keep(r, q.Filter, now) {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, comparator(q.Sort, now))
	return out
}

func matches(r reminder.Reminder, needle string) bool {
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Notes), needle)
}

func keep(r reminder.Reminder, filter string, now time.Time) bool {
	switch filter {
	case "", FilterAll:
		return true
	case FilterUrgent:
		d := reminder.DaysUntil(r.Date, now)
		return d >= 0 && d <= reminder.WarningDays
	case FilterExpired:
		return reminder.DaysUntil(r.Date, now) < 0
	default:
		return category(r) == filter
	}
}

func category(r reminder.Reminder) string {
	if !catalog.Known(r.Category) {
		return reminder.CategoryCustom
	}
	return r.Category
}

func comparator(sortKey string, now time.Time) func(a, b reminder.Reminder) int {
	switch sortKey {
	case SortDateAsc:
		return func(a, b reminder.Reminder) int { return a.Date.Compare(b.Date) }
	case SortDateDesc:
		return func(a, b reminder.Reminder) int { return b.Date.Compare(a.Date) }
	case SortAlpha:
		return func(a, b reminder.Reminder) int { return strings.Compare(a.Title, b.Title) }
	default:
		return func(a, b reminder.Reminder) int {
			return compareUrgency(reminder.DaysUntil(a.Date, now), reminder.DaysUntil(b.Date, now))
		}
	}
}

// compareUrgency puts every non-expired day count before every expired one,
// then orders ascending within each group. Among expired reminders this
// means the longest-expired comes first.
func compareUrgency(a, b int) int {
	switch expiredA, expiredB := a < 0, b < 0; {
	case expiredA && !expiredB:
		return 1
	case expiredB && !expiredA:
		return -1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// NextSort returns the sort key after current in SortKeys.
func NextSort(current string) string {
	i := slices.Index(SortKeys, current)
	return SortKeys[(i+1)%len(SortKeys)]
}
