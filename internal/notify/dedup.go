// Package notify decides which reminders deserve a local notification today
// and makes sure each one fires at most once per calendar day.
package notify

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"remindly/internal/reminder"
)

// KeyPrefix namespaces the per-day notified-id sets.
const KeyPrefix = "remindly_n_"

// FallbackRemindDays applies when neither the reminder nor the caller
// provides a lead time.
const FallbackRemindDays = 7

// Store persists notified-id sets. Get returns an empty set for an unknown
// key. Set overwrites the whole set.
type Store interface {
	Get(ctx context.Context, key string) ([]string, error)
	Set(ctx context.Context, key string, ids []string) error
}

// Func is invoked once for every reminder that is due for a notification.
type Func func(r reminder.Reminder, daysUntil int)

// DayKey returns the notified-set key for the calendar day of now.
func DayKey(now time.Time) string {
	return KeyPrefix + reminder.FormatDate(now)
}

// Threshold returns how many days ahead r should be announced.
func Threshold(r reminder.Reminder, defaultRemindDays int) int {
	switch {
	case r.RemindDaysBefore > 0:
		return r.RemindDaysBefore
	case defaultRemindDays > 0:
		return defaultRemindDays
	default:
		return FallbackRemindDays
	}
}

// Deduper fires notifications for due reminders, recording the ids it has
// announced in a per-day set so repeated checks within a day stay silent.
type Deduper struct {
	store   Store
	granted func() bool

	mu sync.Mutex
}

// NewDeduper returns a Deduper backed by store. granted reports whether
// notifications may be shown; nil means always.
func NewDeduper(store Store, granted func() bool) *Deduper {
	return &Deduper{store: store, granted: granted}
}

// CheckAndNotify announces every reminder in reminders that falls within its
// reminder window and has not been announced yet on the calendar day of now.
// It returns the number of notifications fired.
//
// Notifications that already fired are not rolled back when persisting the
// updated set fails; a later check may then announce them a second time.
func (d *Deduper) CheckAndNotify(ctx context.Context, now time.Time, reminders []reminder.Reminder, defaultRemindDays int, notify Func) (int, error) {
	if d.granted != nil && !d.granted() {
		return 0, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := DayKey(now)
	done, err := d.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("load notified set %s: %w", key, err)
	}
	seen := make(map[string]struct{}, len(done))
	for _, id := range done {
		seen[id] = struct{}{}
	}

	fired := 0
	for _, r := range reminders {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		days := reminder.DaysUntil(r.Date, now)
		if days < 0 || days > Threshold(r, defaultRemindDays) {
			continue
		}
		notify(r, days)
		seen[r.ID] = struct{}{}
		done = append(done, r.ID)
		fired++
	}

	if err := d.store.Set(ctx, key, done); err != nil {
		return fired, fmt.Errorf("save notified set %s: %w", key, err)
	}
	return fired, nil
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	sets map[string][]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: map[string][]string{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sets[key]), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[key] = slices.Clone(ids)
	return nil
}
