package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindly/internal/reminder"
)

func TestLookupFallsBackToCustom(t *testing.T) {
	assert.Equal(t, "auto", Lookup("auto").ID)
	assert.Equal(t, reminder.CategoryCustom, Lookup("").ID)
	assert.Equal(t, reminder.CategoryCustom, Lookup("spaceships").ID)
	assert.True(t, Known("pets"))
	assert.False(t, Known("spaceships"))
}

func TestFilterIDsSkipsCustom(t *testing.T) {
	ids := FilterIDs()
	assert.NotContains(t, ids, reminder.CategoryCustom)
	assert.Len(t, ids, len(Categories())-1)
	assert.Equal(t, "auto", ids[0])
}

func TestCategoryIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Categories() {
		require.False(t, seen[c.ID], "duplicate category %s", c.ID)
		seen[c.ID] = true
	}
}

func TestTemplatesReferenceKnownCategories(t *testing.T) {
	for _, tpl := range append(Templates(), CoupleSuggestions()...) {
		assert.True(t, Known(tpl.Category), "template %s", tpl.ID)
	}
}

func TestQuickAdd(t *testing.T) {
	all := QuickAdd(nil, false)
	for _, tpl := range all {
		assert.True(t, tpl.Popular)
	}
	assert.Len(t, all, 6)

	remaining := QuickAdd([]string{"RCA Auto", "ITP"}, false)
	assert.Len(t, remaining, 4)
	for _, tpl := range remaining {
		assert.NotEqual(t, "RCA Auto", tpl.Title)
	}

	couple := QuickAdd(nil, true)
	require.Len(t, couple, 8)
	assert.Equal(t, "ci_partner", couple[6].ID)
	assert.Equal(t, "passport_partner", couple[7].ID)
}

func TestTemplateReminder(t *testing.T) {
	now := time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)
	tpl, ok := FindTemplate("rca")
	require.True(t, ok)

	r := tpl.Reminder(now, 14)
	assert.Equal(t, "RCA Auto", r.Title)
	assert.Equal(t, "2025-01-30", reminder.FormatDate(r.Date))
	assert.Equal(t, "auto", r.Category)
	assert.Equal(t, 14, r.RemindDaysBefore)
	assert.Equal(t, reminder.ForMe, r.ForWhom)
	assert.Equal(t, now, r.CreatedAt)

	partner, ok := FindTemplate("ci_partner")
	require.True(t, ok)
	assert.Equal(t, reminder.ForPartner, partner.Reminder(now, 7).ForWhom)

	_, ok = FindTemplate("nope")
	assert.False(t, ok)
}

func TestThemeByID(t *testing.T) {
	assert.Equal(t, "#f43f5e", ThemeByID("rose").Accent)
	assert.Equal(t, "indigo", ThemeByID("unknown").ID)
}
