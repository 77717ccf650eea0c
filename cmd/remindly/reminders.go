package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"remindly/internal/catalog"
	"remindly/internal/reminder"
	"remindly/internal/ui"
	"remindly/internal/view"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		q      view.Query
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List reminders with their expiry status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("filter") {
				q.Filter = a.cfg.DefaultFilter
			}
			if !cmd.Flags().Changed("sort") {
				q.Sort = a.cfg.DefaultSort
			}

			reminders, err := a.store.FetchReminders(a.cfg.User)
			if err != nil {
				return err
			}
			now := time.Now()
			list := view.Apply(reminders, q, now)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No reminders found.")
				return nil
			}
			fmt.Fprintln(out, ui.Table(list, now))
			return nil
		},
	}
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "case-insensitive title or notes substring")
	cmd.Flags().StringVarP(&q.Filter, "filter", "f", view.FilterAll, "all, urgent, expired or a category id")
	cmd.Flags().StringVar(&q.Sort, "sort", view.SortUrgency, "urgency, date-asc, date-desc or alpha")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// reminderFlags are the editable reminder fields shared by add and edit.
type reminderFlags struct {
	title      string
	date       string
	category   string
	notes      string
	remindDays int
	forWhom    string
}

func (f *reminderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "reminder title")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "expiry date as YYYY-MM-DD")
	cmd.Flags().StringVar(&f.category, "category", "", "category id ("+strings.Join(catalog.FilterIDs(), ", ")+")")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "free-form notes")
	cmd.Flags().IntVar(&f.remindDays, "remind-days", 0, "days before expiry to start notifying (0 uses the default)")
	cmd.Flags().StringVar(&f.forWhom, "for", "", "me, partner or both")
}

// apply copies every flag the user set onto r.
func (f *reminderFlags) apply(cmd *cobra.Command, r *reminder.Reminder) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		r.Title = strings.TrimSpace(f.title)
	}
	if changed("date") {
		date, err := reminder.ParseDate(f.date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", f.date)
		}
		r.Date = date
	}
	if changed("category") {
		if f.category != "" && !catalog.Known(f.category) {
			return fmt.Errorf("unknown category %q", f.category)
		}
		r.Category = f.category
	}
	if changed("notes") {
		r.Notes = f.notes
	}
	if changed("remind-days") {
		if f.remindDays < 0 {
			return errors.New("--remind-days must not be negative")
		}
		r.RemindDaysBefore = f.remindDays
	}
	if changed("for") {
		switch f.forWhom {
		case reminder.ForMe, reminder.ForPartner, reminder.ForBoth:
			r.ForWhom = f.forWhom
		default:
			return fmt.Errorf("invalid --for %q: use me, partner or both", f.forWhom)
		}
	}
	return nil
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		fields   reminderFlags
		template string
	)
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a reminder, or create one from a quick template",
		Example: `  remindly add "Passport" --date 2030-05-01 --category personal
  remindly add --template rca`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			var r reminder.Reminder
			if template != "" {
				t, ok := catalog.FindTemplate(template)
				if !ok {
					return fmt.Errorf("unknown template %q (see remindly templates)", template)
				}
				r = t.Reminder(time.Now(), a.cfg.Settings.DefaultRemindDays)
			}
			if len(args) == 1 {
				r.Title = strings.TrimSpace(args[0])
			}
			if err := fields.apply(cmd, &r); err != nil {
				return err
			}
			if r.Title == "" {
				return errors.New("a title is required")
			}
			if r.Date.IsZero() {
				return errors.New("--date is required")
			}

			added, err := a.store.AddReminder(a.cfg.User, r)
			if err != nil {
				return err
			}
			a.log.Debug().Str("id", added.ID).Msg("reminder added")
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %s)\n", added.Title, reminder.FormatDate(added.Date), added.ID)
			return nil
		},
	}
	fields.register(cmd)
	cmd.Flags().StringVarP(&template, "template", "t", "", "quick template id")
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var fields reminderFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a reminder",
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
			if err := fields.apply(cmd, &r); err != nil {
				return err
			}
			if err := a.store.UpdateReminder(a.cfg.User, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", r.Title)
			return nil
		},
	}
	fields.register(cmd)
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete reminders",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("--all takes no ids")
			}
			if !all && len(args) == 0 {
				return errors.New("at least one id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if all {
				n, err := a.store.DeleteAll(a.cfg.User)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted %d reminder(s)\n", n)
				return nil
			}
			for _, id := range args {
				if err := a.store.DeleteReminder(a.cfg.User, id); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every reminder of the user")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
