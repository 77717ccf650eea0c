package catalog

import (
	"slices"
	"time"

	"remindly/internal/reminder"
)

// Template is a ready-made reminder offered for quick adding.
type Template struct {
	ID          string
	Title       string
	Emoji       string
	Category    string
	DefaultDays int
	Description string
	Popular     bool
	ForWhom     string
}

var quickTemplates = []Template{
	{ID: "rca", Title: "RCA Auto", Emoji: "🛡️", Category: "auto", DefaultDays: 365, Description: "Mandatory car insurance", Popular: true},
	{ID: "itp", Title: "ITP", Emoji: "🔧", Category: "auto", DefaultDays: 730, Description: "Periodic technical inspection", Popular: true},
	{ID: "ci", Title: "Identity card", Emoji: "🪪", Category: "personal", DefaultDays: 3650, Description: "National ID card", Popular: true},
	{ID: "passport", Title: "Passport", Emoji: "✈️", Category: "personal", DefaultDays: 1825, Description: "International passport", Popular: true},
	{ID: "rovinieta", Title: "Road vignette", Emoji: "🛣️", Category: "auto", DefaultDays: 365, Description: "National road toll", Popular: true},
	{ID: "asig_casa", Title: "Home insurance", Emoji: "🏠", Category: "home", DefaultDays: 365, Description: "Mandatory home policy", Popular: true},
	{ID: "revizie", Title: "Boiler inspection", Emoji: "🔥", Category: "home", DefaultDays: 730, Description: "Heating system check"},
	{ID: "control", Title: "Medical check", Emoji: "🩺", Category: "health", DefaultDays: 365, Description: "Lab work and consultation"},
	{ID: "permis", Title: "Driving licence", Emoji: "🪪", Category: "auto", DefaultDays: 3650, Description: "Licence renewal"},
	{ID: "casco", Title: "CASCO", Emoji: "🚗", Category: "auto", DefaultDays: 365, Description: "Optional comprehensive car insurance"},
	{ID: "dentist", Title: "Dental check", Emoji: "🦷", Category: "health", DefaultDays: 180, Description: "Check-up and cleaning"},
	{ID: "vaccin", Title: "Flu vaccine", Emoji: "💉", Category: "health", DefaultDays: 365, Description: "Yearly flu shot"},
	{ID: "rata", Title: "Loan instalment", Emoji: "🏦", Category: "home", DefaultDays: 30, Description: "Monthly loan payment"},
	{ID: "domeniu", Title: "Web domain", Emoji: "🌐", Category: "work", DefaultDays: 365, Description: "Domain renewal"},
	{ID: "schimb_ulei", Title: "Oil change", Emoji: "🛢️", Category: "auto", DefaultDays: 180, Description: "Oil and filters"},
	{ID: "deparazitare", Title: "Pet deworming", Emoji: "🐾", Category: "pets", DefaultDays: 90, Description: "Internal and external deworming"},
}

var coupleSuggestions = []Template{
	{ID: "ci_partner", Title: "Partner's identity card", Emoji: "🪪", Category: "personal", DefaultDays: 3650, Description: "Partner's ID card", ForWhom: reminder.ForPartner},
	{ID: "passport_partner", Title: "Partner's passport", Emoji: "✈️", Category: "personal", DefaultDays: 1825, Description: "Partner's passport", ForWhom: reminder.ForPartner},
	{ID: "permis_partner", Title: "Partner's driving licence", Emoji: "🪪", Category: "auto", DefaultDays: 3650, Description: "Partner's licence", ForWhom: reminder.ForPartner},
	{ID: "control_partner", Title: "Partner's medical check", Emoji: "🩺", Category: "health", DefaultDays: 365, Description: "Partner's check-up", ForWhom: reminder.ForPartner},
}

// Templates returns every quick-add template.
func Templates() []Template {
	return quickTemplates
}

// CoupleSuggestions returns the templates offered in couple mode.
func CoupleSuggestions() []Template {
	return coupleSuggestions
}

// FindTemplate looks a template up by id across both template lists.
func FindTemplate(id string) (Template, bool) {
	for _, list := range [][]Template{quickTemplates, coupleSuggestions} {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Template{}, false
}

// QuickAdd returns the popular templates, plus the first two couple
// suggestions in couple mode, whose titles are not already taken.
func QuickAdd(existingTitles []string, coupleMode bool) []Template {
	var pool []Template
	for _, t := range quickTemplates {
		if t.Popular {
			pool = append(pool, t)
		}
	}
	if coupleMode {
		pool = append(pool, coupleSuggestions[:2]...)
	}

	out := make([]Template, 0, len(pool))
	for _, t := range pool {
		if slices.Contains(existingTitles, t.Title) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Reminder builds a new reminder from t, due DefaultDays after now. A zero
// DefaultDays falls back to one year.
func (t Template) Reminder(now time.Time, defaultRemindDays int) reminder.Reminder {
	days := t.DefaultDays
	if days <= 0 {
		days = 365
	}
	forWhom := t.ForWhom
	if forWhom == "" {
		forWhom = reminder.ForMe
	}
	category := t.Category
	if category == "" {
		category = reminder.CategoryCustom
	}
	return reminder.Reminder{
		Title:            t.Title,
		Date:             reminder.Today(now).AddDate(0, 0, days),
		Notes:            t.Description,
		Category:         category,
		CreatedAt:        now,
		RemindDaysBefore: defaultRemindDays,
		ForWhom:          forWhom,
	}
}
