package reminder

import "time"

// Progress returns how much of a reminder's lifetime has elapsed at now, as
// a percentage in [0, 100]. A zero createdAt yields 0. A target on or before
// the creation date counts as fully elapsed. The creation day is read in
// now's location.
func Progress(createdAt, target, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	createdAt = createdAt.In(now.Location())
	total := DaysBetween(createdAt, target)
	if total <= 0 {
		return 100
	}
	elapsed := DaysBetween(createdAt, now)
	pct := float64(elapsed) / float64(total) * 100
	return min(max(pct, 0), 100)
}
