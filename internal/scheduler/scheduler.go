// Package scheduler runs the notification check on a fixed interval while
// the program stays open.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"remindly/internal/notify"
	"remindly/internal/reminder"
)

// Source supplies the current reminder snapshot.
type Source interface {
	FetchReminders(owner string) ([]reminder.Reminder, error)
}

// Config controls a Scheduler.
type Config struct {
	Owner             string
	Interval          time.Duration
	DefaultRemindDays int
}

// Scheduler periodically loads a fresh snapshot and runs the de-duplicated
// notification check over it.
type Scheduler struct {
	source Source
	dedup  *notify.Deduper
	notify notify.Func
	cfg    Config
	log    zerolog.Logger
	now    func() time.Time
}

// New creates a Scheduler.
func New(source Source, dedup *notify.Deduper, fn notify.Func, cfg Config, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		source: source,
		dedup:  dedup,
		notify: fn,
		cfg:    cfg,
		log:    log.With().Str("component", "scheduler").Logger(),
		now:    time.Now,
	}
}

// Run checks immediately, then on every interval tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cfg.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.cfg.Interval)
	}

	s.log.Info().Dur("interval", s.cfg.Interval).Msg("started")

	s.Tick(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("shutting down")
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one notification check and returns how many notifications fired.
func (s *Scheduler) Tick(ctx context.Context) int {
	reminders, err := s.source.FetchReminders(s.cfg.Owner)
	if err != nil {
		s.log.Error().Err(err).Msg("load reminders")
		return 0
	}

	fired, err := s.dedup.CheckAndNotify(ctx, s.now(), reminders, s.cfg.DefaultRemindDays, s.notify)
	if err != nil {
		s.log.Error().Err(err).Int("fired", fired).Msg("notification check")
		return fired
	}
	if fired == 0 {
		s.log.Debug().Int("reminders", len(reminders)).Msg("nothing due")
	} else {
		s.log.Info().Int("fired", fired).Msg("notifications sent")
	}
	return fired
}
