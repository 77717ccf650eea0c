// Package calendar exports reminders to calendar applications.
package calendar

import (
	"net/url"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"remindly/internal/reminder"
)

const defaultDescription = "Added from remindly"

// Alarm offsets attached to every exported event.
var alarmTriggers = []string{"-P7D", "-P1D"}

func stamp(r reminder.Reminder, hhmmss string) string {
	return r.Date.Format("20060102") + "T" + hhmmss + "Z"
}

func description(r reminder.Reminder) string {
	if strings.TrimSpace(r.Notes) == "" {
		return defaultDescription
	}
	return r.Notes
}

// ICS renders r as a one-hour iCalendar event on its date with two display
// alarms, a week and a day before.
func ICS(r reminder.Reminder) string {
	cal := ics.NewCalendarFor("remindly")
	cal.SetProductId("-//remindly//EN")

	uid := r.ID
	if uid == "" {
		uid = reminder.FormatDate(r.Date)
	}
	event := cal.AddEvent(uid + "@remindly")
	event.SetDtStampTime(dtstamp(r))
	event.SetStartAt(at(r, 9))
	event.SetEndAt(at(r, 10))
	event.SetSummary(text("⏰ " + r.Title))
	event.SetDescription(text(description(r)))
	for _, trigger := range alarmTriggers {
		alarm := event.AddAlarm()
		alarm.SetTrigger(trigger)
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetProperty(ics.ComponentPropertyDescription, "Reminder")
	}
	return cal.Serialize()
}

func at(r reminder.Reminder, hour int) time.Time {
	y, m, d := r.Date.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

// dtstamp is the creation time when known, so exports of an unchanged
// reminder are identical.
func dtstamp(r reminder.Reminder) time.Time {
	if r.CreatedAt.IsZero() {
		return at(r, 0)
	}
	return r.CreatedAt
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func text(v string) string {
	return lineBreaks.Replace(v)
}

// GoogleURL returns a Google Calendar link that pre-fills an event for r.
func GoogleURL(r reminder.Reminder) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", "⏰ "+r.Title)
	q.Set("dates", stamp(r, "090000")+"/"+stamp(r, "100000"))
	q.Set("details", description(r))
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

// Filename returns a safe file name for the exported event.
func Filename(r reminder.Reminder) string {
	name := strings.Map(func(c rune) rune {
		switch c {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return c
	}, strings.TrimSpace(r.Title))
	if name == "" {
		name = "reminder"
	}
	return name + ".ics"
}
