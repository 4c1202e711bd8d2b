package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"secboard/internal/webhook"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "secboard.db"
	DefaultBaseURL        = "http://localhost:5678/webhook"
	DefaultCompletedBy    = "web_user"

	EnvConfigPath = "SECBOARD_CONFIG"
	EnvBaseURL    = "SECBOARD_BASE_URL"
)

type Keymap struct {
	Quit             string `toml:"quit"`
	Up               string `toml:"up"`
	Down             string `toml:"down"`
	Toggle           string `toml:"toggle"`
	Notes            string `toml:"notes"`
	Search           string `toml:"search"`
	NextCategory     string `toml:"next_category"`
	PrevCategory     string `toml:"prev_category"`
	CyclePriority    string `toml:"cycle_priority"`
	CycleStatus      string `toml:"cycle_status"`
	ClearFilters     string `toml:"clear_filters"`
	Export           string `toml:"export"`
	MarkAll          string `toml:"mark_all"`
	ResetWeek        string `toml:"reset_week"`
	AutomationStatus string `toml:"automation_status"`
	Board            string `toml:"board"`
	Reload           string `toml:"reload"`
	AutoRefresh      string `toml:"auto_refresh"`
	DarkMode         string `toml:"dark_mode"`
	CompactView      string `toml:"compact_view"`
	Help             string `toml:"help"`
	Confirm          string `toml:"confirm"`
	Cancel           string `toml:"cancel"`
	Save             string `toml:"save"`
}

type LogConfig struct {
	Path      string `toml:"path"`
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	Timestamp bool   `toml:"timestamp"`
}

type Config struct {
	BaseURL         string            `toml:"base_url"`
	Endpoints       webhook.Endpoints `toml:"endpoints"`
	CompletedBy     string            `toml:"completed_by"`
	RefreshInterval string            `toml:"refresh_interval"`
	SearchDebounce  string            `toml:"search_debounce"`
	RequestTimeout  string            `toml:"request_timeout"`
	RateLimit       float64           `toml:"rate_limit"`
	RateBurst       int               `toml:"rate_burst"`
	DBPath          string            `toml:"db_path"`
	ExportDir       string            `toml:"export_dir"`
	Log             LogConfig         `toml:"log"`
	Keys            Keymap            `toml:"keys"`
}

// ResolveConfigPath picks $SECBOARD_CONFIG, then the XDG config dir, then
// the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "secboard", DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return applyEnv(cfg), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.CompletedBy == "" {
		cfg.CompletedBy = DefaultCompletedBy
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	return cfg
}

func (c Config) validate() error {
	for name, v := range map[string]string{
		"refresh_interval": c.RefreshInterval,
		"search_debounce":  c.SearchDebounce,
		"request_timeout":  c.RequestTimeout,
	} {
		if strings.TrimSpace(v) == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be greater than zero", name)
		}
	}
	return nil
}

func (c Config) Refresh() time.Duration {
	return durationOr(c.RefreshInterval, 30*time.Second)
}

func (c Config) Debounce() time.Duration {
	return durationOr(c.SearchDebounce, 300*time.Millisecond)
}

func (c Config) Timeout() time.Duration {
	return durationOr(c.RequestTimeout, 15*time.Second)
}

func durationOr(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func defaultConfig(dir string) Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Endpoints:       webhook.DefaultEndpoints(),
		CompletedBy:     DefaultCompletedBy,
		RefreshInterval: "30s",
		SearchDebounce:  "300ms",
		RequestTimeout:  "15s",
		RateLimit:       5,
		RateBurst:       10,
		DBPath:          filepath.Join(dir, DefaultDBName),
		ExportDir:       ".",
		Log: LogConfig{
			Path:   filepath.Join(dir, "secboard.log"),
			Level:  "info",
			Format: "text",
		},
		Keys: Keymap{
			Quit:             "q",
			Up:               "k",
			Down:             "j",
			Toggle:           " ",
			Notes:            "n",
			Search:           "/",
			NextCategory:     "tab",
			PrevCategory:     "shift+tab",
			CyclePriority:    "p",
			CycleStatus:      "s",
			ClearFilters:     "c",
			Export:           "x",
			MarkAll:          "M",
			ResetWeek:        "R",
			AutomationStatus: "a",
			Board:            "b",
			Reload:           "r",
			AutoRefresh:      "A",
			DarkMode:         "D",
			CompactView:      "v",
			Help:             "?",
			Confirm:          "enter",
			Cancel:           "esc",
			Save:             "ctrl+s",
		},
	}
}
