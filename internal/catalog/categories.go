// Package catalog holds the static reference data: document categories,
// quick-add templates and colour themes.
package catalog

import "remindly/internal/reminder"

// Subcategory is a concrete document kind with its usual validity.
type Subcategory struct {
	ID    string
	Label string
	// DefaultDays is the usual validity in days; 0 means it never expires.
	DefaultDays int
	Emoji       string
}

// Category groups related document kinds.
type Category struct {
	ID            string
	Label         string
	Emoji         string
	Subcategories []Subcategory
}

var categories = []Category{
	{
		ID: "auto", Label: "Auto & Moto", Emoji: "🚗",
		Subcategories: []Subcategory{
			{ID: "rca", Label: "RCA (liability insurance)", DefaultDays: 365, Emoji: "🛡️"},
			{ID: "itp", Label: "ITP (technical inspection)", DefaultDays: 730, Emoji: "🔧"},
			{ID: "rovinieta", Label: "Road vignette", DefaultDays: 365, Emoji: "🛣️"},
			{ID: "casco", Label: "CASCO", DefaultDays: 365, Emoji: "🚗"},
			{ID: "permis", Label: "Driving licence", DefaultDays: 3650, Emoji: "🪪"},
			{ID: "taxa_drum", Label: "Road tax", DefaultDays: 365, Emoji: "💳"},
			{ID: "schimb_ulei", Label: "Oil change", DefaultDays: 180, Emoji: "🛢️"},
		},
	},
	{
		ID: "personal", Label: "Personal documents", Emoji: "🪪",
		Subcategories: []Subcategory{
			{ID: "ci", Label: "Identity card", DefaultDays: 3650, Emoji: "🪪"},
			{ID: "passport", Label: "Passport", DefaultDays: 1825, Emoji: "✈️"},
			{ID: "cazier", Label: "Criminal record certificate", DefaultDays: 180, Emoji: "📋"},
			{ID: "certificat_casatorie", Label: "Marriage certificate", DefaultDays: 0, Emoji: "💍"},
		},
	},
	{
		ID: "home", Label: "Home & Utilities", Emoji: "🏠",
		Subcategories: []Subcategory{
			{ID: "iscir", Label: "Boiler inspection (ISCIR)", DefaultDays: 730, Emoji: "🔥"},
			{ID: "rate", Label: "Loan instalment", DefaultDays: 30, Emoji: "🏦"},
			{ID: "asig_locuinta", Label: "Home insurance (PAD)", DefaultDays: 365, Emoji: "🏠"},
			{ID: "contract_chirie", Label: "Rental contract", DefaultDays: 365, Emoji: "📝"},
			{ID: "gaze", Label: "Gas inspection", DefaultDays: 730, Emoji: "🔧"},
			{ID: "impozit", Label: "Property tax", DefaultDays: 365, Emoji: "💰"},
		},
	},
	{
		ID: "health", Label: "Health", Emoji: "🩺",
		Subcategories: []Subcategory{
			{ID: "asig_sanatate", Label: "Health insurance", DefaultDays: 365, Emoji: "💊"},
			{ID: "control_medical", Label: "Periodic medical check", DefaultDays: 365, Emoji: "🩺"},
			{ID: "vaccin", Label: "Vaccine / booster", DefaultDays: 365, Emoji: "💉"},
			{ID: "dentist", Label: "Dental check", DefaultDays: 180, Emoji: "🦷"},
			{ID: "oftalmolog", Label: "Eye check", DefaultDays: 365, Emoji: "👁️"},
		},
	},
	{
		ID: "work", Label: "Work & Business", Emoji: "💼",
		Subcategories: []Subcategory{
			{ID: "contract_munca", Label: "Employment contract", DefaultDays: 365, Emoji: "📄"},
			{ID: "licenta", Label: "Software licence", DefaultDays: 365, Emoji: "💻"},
			{ID: "certificari", Label: "Professional certification", DefaultDays: 365, Emoji: "🏅"},
			{ID: "domeniu_web", Label: "Web domain / hosting", DefaultDays: 365, Emoji: "🌐"},
		},
	},
	{
		ID: "insurance", Label: "Insurance", Emoji: "🛡️",
		Subcategories: []Subcategory{
			{ID: "asig_viata", Label: "Life insurance", DefaultDays: 365, Emoji: "❤️"},
			{ID: "asig_calatorie", Label: "Travel insurance", DefaultDays: 365, Emoji: "✈️"},
			{ID: "asig_accidente", Label: "Accident insurance", DefaultDays: 365, Emoji: "🛡️"},
		},
	},
	{
		ID: "pets", Label: "Pets", Emoji: "🐾",
		Subcategories: []Subcategory{
			{ID: "vaccin_animal", Label: "Pet vaccine", DefaultDays: 365, Emoji: "💉"},
			{ID: "deparazitare", Label: "Deworming", DefaultDays: 90, Emoji: "🐛"},
			{ID: "microcip", Label: "Microchip check", DefaultDays: 365, Emoji: "📡"},
		},
	},
	{ID: reminder.CategoryCustom, Label: "Custom / Other", Emoji: "✨"},
}

// Categories returns every category, with the custom sentinel last.
func Categories() []Category {
	return categories
}

// Lookup returns the category with the given id, or the custom category when
// the id is empty or unknown.
func Lookup(id string) Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return categories[len(categories)-1]
}

// Known reports whether id names a catalog category.
func Known(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// FilterIDs returns the category ids usable as view filters. The custom
// sentinel is left out.
func FilterIDs() []string {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.ID == reminder.CategoryCustom {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}
