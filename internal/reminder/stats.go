package reminder

import "time"

// Stats counts reminders by coarse urgency.
type Stats struct {
	Total   int `json:"total"`
	Urgent  int `json:"urgent"`
	Expired int `json:"expired"`
	OK      int `json:"ok"`
}

// Summarize buckets reminders into expired, urgent (due within WarningDays)
// and ok.
func Summarize(reminders []Reminder, now time.Time) Stats {
	s := Stats{Total: len(reminders)}
	for _, r := range reminders {
		d := DaysUntil(r.Date, now)
		switch {
		case d < 0:
			s.Expired++
		case d <= WarningDays:
			s.Urgent++
		default:
			s.OK++
		}
	}
	return s
}
