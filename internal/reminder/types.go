package reminder

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and storage layout for reminder dates.
const DateLayout = "2006-01-02"

// CategoryCustom is the catalog id used when a reminder has no known category.
const CategoryCustom = "custom"

// ForWhom values, meaningful only in couple mode.
const (
	ForMe      = "me"
	ForPartner = "partner"
	ForBoth    = "both"
)

// Reminder is a tracked document or obligation with an expiry date.
type Reminder struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Date is a calendar date; only its year, month and day are significant.
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes,omitempty"`
	Category string    `json:"category"`
	// CreatedAt is the zero time when unknown.
	CreatedAt        time.Time `json:"created_at,omitzero"`
	RemindDaysBefore int       `json:"remind_days_before"`
	ForWhom          string    `json:"for_whom"`
}

type reminderJSON Reminder

// MarshalJSON encodes Date as YYYY-MM-DD.
func (r Reminder) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		reminderJSON
		Date string `json:"date"`
	}{reminderJSON(r), FormatDate(r.Date)})
}

// UnmarshalJSON accepts a YYYY-MM-DD date.
func (r *Reminder) UnmarshalJSON(data []byte) error {
	var v struct {
		*reminderJSON
		Date string `json:"date"`
	}
	v.reminderJSON = (*reminderJSON)(r)
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Date == "" {
		r.Date = time.Time{}
		return nil
	}
	date, err := ParseDate(v.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", v.Date, err)
	}
	r.Date = date
	return nil
}

// Normalized returns a copy with defaults applied for empty fields.
func (r Reminder) Normalized() Reminder {
	if r.Category == "" {
		r.Category = CategoryCustom
	}
	switch r.ForWhom {
	case ForMe, ForPartner, ForBoth:
	default:
		r.ForWhom = ForMe
	}
	if r.RemindDaysBefore < 0 {
		r.RemindDaysBefore = 0
	}
	return r
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(v string) (time.Time, error) {
	return time.Parse(DateLayout, v)
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
