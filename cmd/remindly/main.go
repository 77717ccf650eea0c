// Command remindly tracks documents with expiry dates and reminds you before
// they lapse.
//
// Without a subcommand it opens the interactive list. The subcommands cover
// scripting, a background notifier and an MCP server over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"remindly/internal/config"
	"remindly/internal/logger"
	"remindly/internal/notify"
	"remindly/internal/storage"
	"remindly/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	user       string
}

// app is the loaded configuration and open store shared by subcommands.
type app struct {
	cfg   config.Config
	store *storage.Store
	log   zerolog.Logger
}

func (o *rootOptions) open() (*app, error) {
	path := o.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.user != "" {
		cfg.User = o.user
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &app{cfg: cfg, store: store, log: logger.Console(cfg.LogLevel)}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// deliveries returns the external notification channels that are configured.
func (a *app) deliveries() []notify.Delivery {
	var out []notify.Delivery
	if tg := notify.NewTelegram(a.cfg.Telegram.BaseURL, a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID); tg.Granted() {
		out = append(out, tg)
	}
	return out
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "remindly",
		Short:         "Track expiring documents and get reminded before they lapse",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(opts)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $REMINDLY_CONFIG or the user config dir)")
	cmd.PersistentFlags().StringVarP(&opts.user, "user", "u", "", "owner whose reminders to use (overrides config)")

	cmd.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newNotifyCmd(opts),
		newWatchCmd(opts),
		newStatsCmd(opts),
		newTemplatesCmd(),
		newExportCmd(opts),
		newMCPCmd(opts),
	)
	return cmd
}

func runInteractive(opts *rootOptions) error {
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

	uiOpts := ui.Options{
		Deliveries: a.deliveries(),
		Log:        log,
		ExportDir:  ".",
	}
	if a.cfg.Settings.NotificationsEnabled {
		uiOpts.Dedup = notify.NewDeduper(a.store, nil)
	}

	if err := ui.Run(a.store, a.cfg, uiOpts); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
