package reminder

import "time"

const secondsPerDay = 24 * 60 * 60

// dayNumber returns the number of days between 1970-01-01 and the civil
// date of t, as read in t's own location.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// DaysBetween returns the whole calendar days from the date of from to the
// date of to. Times of day are ignored.
func DaysBetween(from, to time.Time) int {
	return int(dayNumber(to) - dayNumber(from))
}

// DaysUntil returns the signed calendar-day distance from now to date.
// A date earlier today yields 0; past dates are negative.
func DaysUntil(date, now time.Time) int {
	return DaysBetween(now, date)
}

// Today truncates now to midnight in its own location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
