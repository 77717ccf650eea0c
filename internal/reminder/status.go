package reminder

import "fmt"

// Tier is an urgency bucket.
type Tier string

const (
	TierExpired  Tier = "expired"
	TierToday    Tier = "today"
	TierCritical Tier = "critical"
	TierWarning  Tier = "warning"
	TierSafe     Tier = "safe"
)

// Tier thresholds in days, inclusive.
const (
	CriticalDays = 7
	WarningDays  = 30
)

// Status describes how urgent a reminder is.
type Status struct {
	Tier  Tier
	Label string
	// Weight ranks tiers for display; higher is more urgent.
	Weight int
}

// Classify maps a signed day count to its urgency status.
func Classify(daysUntil int) Status {
	switch {
	case daysUntil < 0:
		return Status{Tier: TierExpired, Label: "Expired", Weight: 0}
	case daysUntil == 0:
		return Status{Tier: TierToday, Label: "TODAY!", Weight: 4}
	case daysUntil <= CriticalDays:
		return Status{Tier: TierCritical, Label: fmt.Sprintf("%dd", daysUntil), Weight: 3}
	case daysUntil <= WarningDays:
		return Status{Tier: TierWarning, Label: fmt.Sprintf("%dd", daysUntil), Weight: 2}
	default:
		return Status{Tier: TierSafe, Label: fmt.Sprintf("%dd", daysUntil), Weight: 1}
	}
}

// Tiers lists every tier from most to least urgent.
func Tiers() []Tier {
	return []Tier{TierToday, TierCritical, TierWarning, TierSafe, TierExpired}
}
