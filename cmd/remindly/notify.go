package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"remindly/internal/notify"
	"remindly/internal/scheduler"
)

// newScheduler wires the notification check to stdout and the configured
// external channels.
func (a *app) newScheduler(ctx context.Context, cmd *cobra.Command) *scheduler.Scheduler {
	deliveries := append([]notify.Delivery{notify.Writer{W: cmd.OutOrStdout()}}, a.deliveries()...)
	return scheduler.New(
		a.store,
		notify.NewDeduper(a.store, notify.AnyGranted(deliveries...)),
		notify.Callback(ctx, a.log, deliveries...),
		scheduler.Config{
			Owner:             a.cfg.User,
			Interval:          time.Duration(a.cfg.Scheduler.Interval) * time.Second,
			DefaultRemindDays: a.cfg.Settings.DefaultRemindDays,
		},
		a.log,
	)
}

func newNotifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Send today's due notifications once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.Settings.NotificationsEnabled {
				fmt.Fprintln(cmd.ErrOrStderr(), "notifications are disabled in settings")
				return nil
			}
			ctx := cmd.Context()
			a.newScheduler(ctx, cmd).Tick(ctx)
			return nil
		},
	}
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep running and send notifications on every interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.Settings.NotificationsEnabled {
				return errors.New("notifications are disabled in settings")
			}
			if interval > 0 {
				a.cfg.Scheduler.Interval = int(interval / time.Second)
				if a.cfg.Scheduler.Interval == 0 {
					a.cfg.Scheduler.Interval = 1
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.newScheduler(ctx, cmd).Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "check interval (default from config)")
	return cmd
}
