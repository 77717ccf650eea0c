package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindly/internal/reminder"
)

func sample() reminder.Reminder {
	return reminder.Reminder{
		ID:    "abc",
		Title: "RCA Auto",
		Date:  time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Notes: "policy 12, renew online",
	}
}

func TestICS(t *testing.T) {
	out := ICS(sample())
	lines := unfold(out)

	assert.Equal(t, "BEGIN:VCALENDAR", lines[0])
	assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])
	assert.Contains(t, lines, "UID:abc@remindly")
	assert.Contains(t, lines, "SUMMARY:⏰ RCA Auto")
	assert.Contains(t, lines, "DTSTART:20250314T090000Z")
	assert.Contains(t, lines, "DTEND:20250314T100000Z")
	assert.Contains(t, lines, `DESCRIPTION:policy 12\, renew online`)
	assert.Contains(t, lines, "TRIGGER:-P7D")
	assert.Contains(t, lines, "TRIGGER:-P1D")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VALARM"))
}

func unfold(ics string) []string {
	ics = strings.NewReplacer("\r\n ", "", "\r\n\t", "").Replace(ics)
	return strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n")
}

func TestICSFoldsLongLines(t *testing.T) {
	r := sample()
	r.Title = strings.TrimSpace(strings.Repeat("Residence permit renewal ", 6))
	out := ICS(r)

	for _, line := range strings.Split(out, "\r\n") {
		assert.LessOrEqual(t, len(line), 75, line)
	}
	assert.Contains(t, unfold(out), "SUMMARY:⏰ "+r.Title)
}

func TestICSEscapesCarriageReturns(t *testing.T) {
	r := sample()
	r.Notes = "line one\r\nline two\rline three"
	out := ICS(r)

	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\r")
	assert.Contains(t, unfold(out), `DESCRIPTION:line one\nline two\nline three`)
}

func TestICSWithoutID(t *testing.T) {
	r := sample()
	r.ID = ""
	assert.Contains(t, unfold(ICS(r)), "UID:2025-03-14@remindly")
}

func TestICSDefaultDescription(t *testing.T) {
	r := sample()
	r.Notes = "  "
	assert.Contains(t, ICS(r), "DESCRIPTION:Added from remindly\r\n")
}

func TestGoogleURL(t *testing.T) {
	u, err := url.Parse(GoogleURL(sample()))
	require.NoError(t, err)

	assert.Equal(t, "calendar.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "⏰ RCA Auto", q.Get("text"))
	assert.Equal(t, "20250314T090000Z/20250314T100000Z", q.Get("dates"))
	assert.Equal(t, "policy 12, renew online", q.Get("details"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "RCA Auto.ics", Filename(sample()))
	assert.Equal(t, "a_b.ics", Filename(reminder.Reminder{Title: "a/b"}))
	assert.Equal(t, "reminder.ics", Filename(reminder.Reminder{}))
}
