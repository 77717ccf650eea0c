package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"remindly/internal/calendar"
	"remindly/internal/catalog"
	"remindly/internal/logger"
	"remindly/internal/mcpserver"
	"remindly/internal/reminder"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count reminders by urgency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			reminders, err := a.store.FetchReminders(a.cfg.User)
			if err != nil {
				return err
			}
			s := reminder.Summarize(reminders, time.Now())

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, s)
			}
			fmt.Fprintf(out, "Total:   %s\nUrgent:  %s\nExpired: %s\nOK:      %s\n",
				humanize.Comma(int64(s.Total)), humanize.Comma(int64(s.Urgent)),
				humanize.Comma(int64(s.Expired)), humanize.Comma(int64(s.OK)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	var couple bool
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List quick-add templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "TITLE", "CATEGORY", "VALID FOR", "DESCRIPTION")
			list := catalog.Templates()
			if couple {
				list = append(append([]catalog.Template{}, list...), catalog.CoupleSuggestions()...)
			}
			for _, tpl := range list {
				t.Row(tpl.ID, tpl.Emoji+" "+tpl.Title, catalog.Lookup(tpl.Category).Label, validity(tpl.DefaultDays), tpl.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&couple, "couple", false, "include the couple-mode suggestions")
	return cmd
}

// validity renders a day count the way people talk about document lifetimes.
func validity(days int) string {
	switch {
	case days >= 365 && days%365 == 0:
		return english.Plural(days/365, "year", "years")
	case days >= 30 && days%30 == 0:
		return english.Plural(days/30, "month", "months")
	default:
		return english.Plural(days, "day", "days")
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a reminder as an iCalendar file or a Google Calendar link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.store.GetReminder(a.cfg.User, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "ics":
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
				path := filepath.Join(dir, calendar.Filename(r))
				if err := os.WriteFile(path, []byte(calendar.ICS(r)), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintln(out, path)
			case "google":
				fmt.Fprintln(out, calendar.GoogleURL(r))
			default:
				return fmt.Errorf("unknown format %q: use ics or google", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "ics", "ics or google")
	cmd.Flags().StringVarP(&dir, "out", "o", ".", "directory for the .ics file")
	return cmd
}

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve reminders as MCP tools over stdio",
		Long: `Serve reminders as MCP tools over stdio.

Tools: list_reminders, reminder_stats, add_reminder, delete_reminder,
list_templates. Logs go to log_file since stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			log, closer, err := logger.File(a.cfg.LogFile, a.cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer closer.Close()

			s := mcpserver.NewServer(a.store, a.cfg.User, a.cfg.Settings.DefaultRemindDays, log)
			if err := s.ServeStdio(); err != nil && !errors.Is(err, os.ErrClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}
