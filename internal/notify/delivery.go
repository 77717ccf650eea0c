package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"remindly/internal/reminder"
)

// Message is a single notification.
type Message struct {
	Title string
	Body  string
	// Tag identifies the reminder so a display can collapse repeats.
	Tag string
}

// MessageFor renders the notification for r when it is daysUntil days away.
func MessageFor(r reminder.Reminder, daysUntil int) Message {
	body := fmt.Sprintf("Expires in %d days", daysUntil)
	if daysUntil == 0 {
		body = "Expires TODAY!"
	}
	return Message{Title: "⏰ " + r.Title, Body: body, Tag: r.ID}
}

// Delivery shows notifications to the user.
type Delivery interface {
	Granted() bool
	Deliver(ctx context.Context, msg Message) error
}

// Callback adapts deliveries to a Func. Delivery errors are logged; they never
// stop the remaining notifications.
func Callback(ctx context.Context, log zerolog.Logger, deliveries ...Delivery) Func {
	return func(r reminder.Reminder, daysUntil int) {
		msg := MessageFor(r, daysUntil)
		for _, d := range deliveries {
			if !d.Granted() {
				continue
			}
			if err := d.Deliver(ctx, msg); err != nil {
				log.Warn().Err(err).Str("reminder", r.ID).Msg("notification delivery failed")
				continue
			}
			log.Debug().Str("reminder", r.ID).Int("days_until", daysUntil).Msg("notification delivered")
		}
	}
}

// AnyGranted reports whether at least one delivery may show notifications.
func AnyGranted(deliveries ...Delivery) func() bool {
	return func() bool {
		for _, d := range deliveries {
			if d.Granted() {
				return true
			}
		}
		return false
	}
}

// Writer prints notifications as lines of text.
type Writer struct {
	W io.Writer
}

func (w Writer) Granted() bool { return w.W != nil }

func (w Writer) Deliver(_ context.Context, msg Message) error {
	_, err := fmt.Fprintf(w.W, "%s: %s\n", msg.Title, msg.Body)
	return err
}
