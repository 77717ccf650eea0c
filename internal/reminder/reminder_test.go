package reminder

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := ParseDate(v)
	require.NoError(t, err)
	return d
}

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		days int
		want Tier
	}{
		{days: math.MinInt, want: TierExpired},
		{days: -1, want: TierExpired},
		{days: 0, want: TierToday},
		{days: 1, want: TierCritical},
		{days: 7, want: TierCritical},
		{days: 8, want: TierWarning},
		{days: 30, want: TierWarning},
		{days: 31, want: TierSafe},
		{days: math.MaxInt, want: TierSafe},
	}

	for _, tc := range cases {
		got := Classify(tc.days)
		assert.Equal(t, tc.want, got.Tier, "days=%d", tc.days)
		assert.Equal(t, got, Classify(tc.days), "classify must be deterministic")
	}
}

func TestClassifyLabelsAndWeights(t *testing.T) {
	assert.Equal(t, "Expired", Classify(-3).Label)
	assert.Equal(t, "TODAY!", Classify(0).Label)
	assert.Equal(t, "5d", Classify(5).Label)
	assert.Equal(t, "45d", Classify(45).Label)

	assert.Greater(t, Classify(0).Weight, Classify(3).Weight)
	assert.Greater(t, Classify(3).Weight, Classify(20).Weight)
	assert.Greater(t, Classify(20).Weight, Classify(90).Weight)
	assert.Greater(t, Classify(90).Weight, Classify(-1).Weight)
}

func TestDaysUntilUsesCalendarDays(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(date(t, "2024-03-10"), now), "earlier today is still today")
	assert.Equal(t, 1, DaysUntil(date(t, "2024-03-11"), now))
	assert.Equal(t, -1, DaysUntil(date(t, "2024-03-09"), now))
	assert.Equal(t, 366, DaysUntil(date(t, "2025-03-11"), now))
}

func TestDaysUntilReadsNowInItsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 2024-03-10 22:30 UTC is already 2024-03-11 locally.
	now := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC).In(loc)

	assert.Equal(t, 0, DaysUntil(date(t, "2024-03-11"), now))
}

func TestDaysUntilFarFuture(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	far := time.Date(3024, 1, 1, 0, 0, 0, 0, time.UTC)

	got := DaysUntil(far, now)
	assert.Greater(t, got, 365000)
	assert.Equal(t, TierSafe, Classify(got).Tier)
}

func TestProgress(t *testing.T) {
	created := date(t, "2024-01-01")
	target := date(t, "2024-01-11")

	cases := []struct {
		name string
		now  string
		want float64
	}{
		{name: "before creation", now: "2023-12-25", want: 0},
		{name: "at creation", now: "2024-01-01", want: 0},
		{name: "halfway", now: "2024-01-06", want: 50},
		{name: "at target", now: "2024-01-11", want: 100},
		{name: "after target", now: "2024-02-01", want: 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Progress(created, target, date(t, tc.now)), 1e-9)
		})
	}
}

func TestProgressReadsCreationDayInNowsZone(t *testing.T) {
	bucharest := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2024, 1, 1, 1, 0, 0, 0, bucharest)
	now := time.Date(2024, 1, 6, 12, 0, 0, 0, bucharest)
	target := date(t, "2024-01-11")

	assert.InDelta(t, 50.0, Progress(created, target, now), 1e-9)
	assert.InDelta(t, 50.0, Progress(created.UTC(), target, now), 1e-9, "stored creation times come back in UTC")
}

func TestProgressWithoutCreatedAt(t *testing.T) {
	assert.Zero(t, Progress(time.Time{}, date(t, "2024-01-11"), date(t, "2024-01-06")))
}

func TestProgressDegenerateSpan(t *testing.T) {
	created := date(t, "2024-01-11")
	assert.Equal(t, 100.0, Progress(created, created, created))
	assert.Equal(t, 100.0, Progress(created, date(t, "2024-01-01"), created))
}

func TestProgressIsMonotonic(t *testing.T) {
	created := date(t, "2024-01-01")
	target := date(t, "2024-04-01")

	prev := -1.0
	for now := created.AddDate(0, 0, -5); now.Before(target.AddDate(0, 0, 10)); now = now.AddDate(0, 0, 1) {
		p := Progress(created, target, now)
		require.GreaterOrEqual(t, p, prev, "now=%s", FormatDate(now))
		prev = p
	}
	assert.Equal(t, 100.0, prev)
}

func TestNormalizedDefaults(t *testing.T) {
	r := Reminder{Title: "x", RemindDaysBefore: -4, ForWhom: "neighbour"}.Normalized()

	assert.Equal(t, CategoryCustom, r.Category)
	assert.Equal(t, ForMe, r.ForWhom)
	assert.Zero(t, r.RemindDaysBefore)

	kept := Reminder{Category: "auto", ForWhom: ForBoth}.Normalized()
	assert.Equal(t, "auto", kept.Category)
	assert.Equal(t, ForBoth, kept.ForWhom)
}

func TestSummarize(t *testing.T) {
	now := date(t, "2024-06-01")
	reminders := []Reminder{
		{Title: "expired", Date: date(t, "2024-05-01")},
		{Title: "today", Date: date(t, "2024-06-01")},
		{Title: "month", Date: date(t, "2024-07-01")},
		{Title: "later", Date: date(t, "2024-07-02")},
	}

	assert.Equal(t, Stats{Total: 4, Urgent: 2, Expired: 1, OK: 1}, Summarize(reminders, now))
	assert.Equal(t, Stats{}, Summarize(nil, now))
}

func TestReminderJSONDateIsDateOnly(t *testing.T) {
	r := Reminder{ID: "a", Title: "ITP", Date: date(t, "2024-06-01"), Category: "auto", RemindDaysBefore: 7, ForWhom: ForMe}

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"date":"2024-06-01"`)
	assert.NotContains(t, string(raw), "created_at")

	var back Reminder
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, r, back)

	err = json.Unmarshal([]byte(`{"title":"ITP","date":"2024-06-01T00:00:00Z"}`), &back)
	require.Error(t, err)
}
