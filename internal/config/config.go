package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	toml "github.com/pelletier/go-toml/v2"

	"remindly/internal/view"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "remindly.db"
	// EnvPrefix prefixes environment overrides. Nested keys use a double
	// underscore: REMINDLY_SETTINGS__DEFAULT_REMIND_DAYS=14.
	EnvPrefix = "REMINDLY_"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "REMINDLY_CONFIG"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Delete   string `toml:"delete"`
	Detail   string `toml:"detail"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
	Edit     string `toml:"edit"`
	Search   string `toml:"search"`
	Filter   string `toml:"filter"`
	Sort     string `toml:"sort"`
	Template string `toml:"template"`
	Export   string `toml:"export"`
}

// Settings are the user preferences.
type Settings struct {
	Theme                string `toml:"theme"`
	CoupleMode           bool   `toml:"couple_mode"`
	PartnerName          string `toml:"partner_name"`
	NotificationsEnabled bool   `toml:"notifications_enabled"`
	DefaultRemindDays    int    `toml:"default_remind_days"`
}

type Telegram struct {
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
	BaseURL  string `toml:"base_url"`
}

type Scheduler struct {
	// Interval between notification checks, in seconds.
	Interval int `toml:"interval"`
}

type Config struct {
	DBPath        string    `toml:"db_path"`
	User          string    `toml:"user"`
	DefaultFilter string    `toml:"default_filter"`
	DefaultSort   string    `toml:"default_sort"`
	LogFile       string    `toml:"log_file"`
	LogLevel      string    `toml:"log_level"`
	Settings      Settings  `toml:"settings"`
	Telegram      Telegram  `toml:"telegram"`
	Scheduler     Scheduler `toml:"scheduler"`
	Keys          Keymap    `toml:"keys"`
}

// ResolveConfigPath returns $REMINDLY_CONFIG, or config.toml inside the
// user config directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "remindly", DefaultConfigFileName)
}

// LoadOrCreate writes a default config file at path when none exists, then
// loads it with environment overrides applied.
func LoadOrCreate(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, Default()); err != nil {
			return Default(), err
		}
	}
	return Load(path)
}

// Load layers defaults, the TOML file at path (when present) and REMINDLY_
// environment variables.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	defaults, err := toMap(Default())
	if err != nil {
		return Config{}, err
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), tomlParser{}); err != nil {
				return Config{}, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "toml"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if path != "" && !filepath.IsAbs(cfg.DBPath) && !strings.HasPrefix(cfg.DBPath, "file:") {
		cfg.DBPath = filepath.Join(filepath.Dir(path), cfg.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot honour.
func (c Config) Validate() error {
	if c.Settings.DefaultRemindDays < 0 {
		return fmt.Errorf("settings.default_remind_days must not be negative, got %d", c.Settings.DefaultRemindDays)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive, got %d", c.Scheduler.Interval)
	}
	if c.DefaultSort != "" && !slices.Contains(view.SortKeys, c.DefaultSort) {
		return fmt.Errorf("default_sort %q is not one of %s", c.DefaultSort, strings.Join(view.SortKeys, ", "))
	}
	return nil
}

// envKey maps REMINDLY_SETTINGS__COUPLE_MODE to settings.couple_mode.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func toMap(cfg Config) (map[string]interface{}, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return tomlParser{}.Unmarshal(data)
}

// tomlParser lets koanf read TOML through go-toml.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	return toml.Marshal(m)
}

// Default returns the built-in configuration used before any file or
// environment override.
func Default() Config {
	return Config{
		DBPath:        DefaultDBName,
		User:          "me",
		DefaultFilter: view.FilterAll,
		DefaultSort:   view.SortUrgency,
		LogLevel:      "info",
		Settings: Settings{
			Theme:                "indigo",
			NotificationsEnabled: true,
			DefaultRemindDays:    7,
		},
		Scheduler: Scheduler{Interval: 3600},
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Delete:   "d",
			Detail:   "enter",
			Confirm:  "enter",
			Cancel:   "esc",
			Edit:     "e",
			Search:   "/",
			Filter:   "f",
			Sort:     "s",
			Template: "t",
			Export:   "x",
		},
	}
}
