package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"tasklist/internal/endpoint"
	"tasklist/internal/todo"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultLogFileName    = "tasklist.log"
	appDirName            = "tasklist"

	defaultNoticeSeconds = 4

	EnvConfigPath = "TASKLIST_CONFIG"
	EnvAPIURL     = "TASKLIST_API_URL"
	EnvLogLevel   = "LOG_LEVEL"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	Submit     string `toml:"submit"`
	NextField  string `toml:"next_field"`
	NextFilter string `toml:"next_filter"`
	PrevFilter string `toml:"prev_filter"`
	Refresh    string `toml:"refresh"`
	Back       string `toml:"back"`
}

type Config struct {
	APIURL         string `toml:"api_url"`
	DefaultFilter  string `toml:"default_filter"`
	RequestTimeout string `toml:"request_timeout"`
	NoticeSeconds  int    `toml:"notice_seconds"`
	LogPath        string `toml:"log_path"`
	LogLevel       string `toml:"log_level"`
	Keys           Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file from TASKLIST_CONFIG or the user
// config directory, falling back to the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.withEnv(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	// notice_seconds = 0 is meaningful, so only an absent key gets the default.
	var set struct {
		NoticeSeconds *int `toml:"notice_seconds"`
	}
	if err := toml.Unmarshal(data, &set); err == nil && set.NoticeSeconds == nil {
		cfg.NoticeSeconds = defaultNoticeSeconds
	}
	cfg.fillDefaults(path)
	return cfg.withEnv(), nil
}

// Validate checks the values the program cannot start without.
func (c Config) Validate() error {
	if _, err := endpoint.Parse(c.APIURL); err != nil {
		return err
	}
	if _, err := todo.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.NoticeSeconds < 0 {
		return fmt.Errorf("notice_seconds must not be negative")
	}
	return nil
}

// Timeout parses request_timeout. Empty means no timeout.
func (c Config) Timeout() (time.Duration, error) {
	v := strings.TrimSpace(c.RequestTimeout)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("request_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("request_timeout must not be negative")
	}
	return d, nil
}

func (c Config) Filter() todo.Filter {
	f, _ := todo.ParseFilter(c.DefaultFilter)
	return f
}

func (c Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeSeconds) * time.Second
}

func (c Config) withEnv() Config {
	c.APIURL = getEnv(EnvAPIURL, c.APIURL)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	return c
}

func (c *Config) fillDefaults(path string) {
	def := defaultConfig(path)
	if c.APIURL == "" {
		c.APIURL = def.APIURL
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = def.DefaultFilter
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	k, d := &c.Keys, def.Keys
	for _, f := range []struct {
		v   *string
		def string
	}{
		{&k.Quit, d.Quit}, {&k.Add, d.Add}, {&k.Up, d.Up}, {&k.Down, d.Down},
		{&k.Toggle, d.Toggle}, {&k.Delete, d.Delete}, {&k.Confirm, d.Confirm},
		{&k.Cancel, d.Cancel}, {&k.Submit, d.Submit}, {&k.NextField, d.NextField},
		{&k.NextFilter, d.NextFilter}, {&k.PrevFilter, d.PrevFilter},
		{&k.Refresh, d.Refresh}, {&k.Back, d.Back},
	} {
		if *f.v == "" {
			*f.v = f.def
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

func defaultConfig(path string) Config {
	return Config{
		APIURL:        endpoint.DefaultBaseURL,
		DefaultFilter: "all",
		NoticeSeconds: defaultNoticeSeconds,
		LogPath:       filepath.Join(filepath.Dir(path), DefaultLogFileName),
		LogLevel:      "info",
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Toggle:     " ",
			Delete:     "d",
			Confirm:    "enter",
			Cancel:     "esc",
			Submit:     "ctrl+s",
			NextField:  "tab",
			NextFilter: "l",
			PrevFilter: "h",
			Refresh:    "r",
			Back:       "b",
		},
	}
}
