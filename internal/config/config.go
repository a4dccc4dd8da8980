package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL          = "http://127.0.0.1:8080"
	DefaultListen           = "127.0.0.1:8090"
	DefaultStatusInterval   = 2 * time.Second
	DefaultHealthInterval   = 2 * time.Second
	DefaultEventsInterval   = 4 * time.Second
	DefaultRequestTimeout   = 5 * time.Second
	DefaultLogTail          = 150
	DefaultEventsWindow     = 300
	DefaultHistoryCapacity  = 60
	DefaultTimelineCapacity = 200
	DefaultSTUNTimeout      = 3 * time.Second

	// EnvPrefix namespaces environment overrides, e.g. WGDASH_BASE_URL.
	EnvPrefix = "WGDASH"
)

// DefaultSTUNServers are used for the public address fallback.
var DefaultSTUNServers = []string{"stun.l.google.com:19302", "stun1.l.google.com:19302"}

// Config holds the dashboard settings.
type Config struct {
	BaseURL          string        `yaml:"base_url"`
	StatusInterval   time.Duration `yaml:"status_interval"`
	HealthInterval   time.Duration `yaml:"health_interval"`
	EventsInterval   time.Duration `yaml:"events_interval"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	LogTail          int           `yaml:"log_tail"`
	EventsWindow     int           `yaml:"events_window"`
	HistoryCapacity  int           `yaml:"history_capacity"`
	TimelineCapacity int           `yaml:"timeline_capacity"`
	LogFilter        string        `yaml:"log_filter,omitempty"`
	EventFilter      string        `yaml:"event_filter,omitempty"`
	Listen           string        `yaml:"listen"`
	// StaleAfterPolls forgets a peer's last state after it is missing from
	// this many status polls. Zero never forgets.
	StaleAfterPolls int `yaml:"stale_after_polls"`
	// PublicIP is shown when the gateway reports none.
	PublicIP    string        `yaml:"public_ip,omitempty"`
	STUNServers []string      `yaml:"stun_servers"`
	STUNTimeout time.Duration `yaml:"stun_timeout"`
}

// Default returns a config with every default applied.
func Default() Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return cfg
}

// Load reads and parses a YAML config file, then applies environment
// overrides and defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}

// LoadOptional is Load, except a missing file yields the defaults.
func LoadOptional(path string) (Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	var cfg Config
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}

// Save writes a YAML config file to disk.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate performs minimal validation for required fields.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", cfg.BaseURL)
	}
	if cfg.StatusInterval <= 0 || cfg.HealthInterval <= 0 || cfg.EventsInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if cfg.HistoryCapacity < 2 {
		return fmt.Errorf("history_capacity must be at least 2")
	}
	if cfg.TimelineCapacity <= 0 {
		return fmt.Errorf("timeline_capacity must be positive")
	}
	if cfg.StaleAfterPolls < 0 {
		return fmt.Errorf("stale_after_polls must not be negative")
	}
	return nil
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.StatusInterval == 0 {
		cfg.StatusInterval = DefaultStatusInterval
	}
	if cfg.HealthInterval == 0 {
		cfg.HealthInterval = DefaultHealthInterval
	}
	if cfg.EventsInterval == 0 {
		cfg.EventsInterval = DefaultEventsInterval
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.LogTail == 0 {
		cfg.LogTail = DefaultLogTail
	}
	if cfg.EventsWindow == 0 {
		cfg.EventsWindow = DefaultEventsWindow
	}
	if cfg.HistoryCapacity == 0 {
		cfg.HistoryCapacity = DefaultHistoryCapacity
	}
	if cfg.TimelineCapacity == 0 {
		cfg.TimelineCapacity = DefaultTimelineCapacity
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if len(cfg.STUNServers) == 0 {
		cfg.STUNServers = append([]string(nil), DefaultSTUNServers...)
	}
	if cfg.STUNTimeout == 0 {
		cfg.STUNTimeout = DefaultSTUNTimeout
	}
}

var envKeys = []string{
	"base_url", "status_interval", "health_interval", "events_interval",
	"request_timeout", "log_tail", "events_window", "history_capacity",
	"timeline_capacity", "log_filter", "event_filter", "listen",
	"stale_after_polls", "public_ip", "stun_servers", "stun_timeout",
}

// ApplyEnv overrides cfg with WGDASH_* environment variables.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return fmt.Errorf("bind %s: %w", k, err)
		}
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) error {
		if !v.IsSet(key) {
			return nil
		}
		n, err := castInt(v.GetString(key))
		if err != nil {
			return fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		if !v.IsSet(key) {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
		*dst = d
		return nil
	}

	str("base_url", &cfg.BaseURL)
	str("log_filter", &cfg.LogFilter)
	str("event_filter", &cfg.EventFilter)
	str("listen", &cfg.Listen)
	str("public_ip", &cfg.PublicIP)
	if v.IsSet("stun_servers") {
		cfg.STUNServers = splitList(v.GetString("stun_servers"))
	}

	for key, dst := range map[string]*int{
		"log_tail":          &cfg.LogTail,
		"events_window":     &cfg.EventsWindow,
		"history_capacity":  &cfg.HistoryCapacity,
		"timeline_capacity": &cfg.TimelineCapacity,
		"stale_after_polls": &cfg.StaleAfterPolls,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*time.Duration{
		"status_interval": &cfg.StatusInterval,
		"health_interval": &cfg.HealthInterval,
		"events_interval": &cfg.EventsInterval,
		"request_timeout": &cfg.RequestTimeout,
		"stun_timeout":    &cfg.STUNTimeout,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func castInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}
