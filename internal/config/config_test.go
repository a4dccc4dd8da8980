package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{BaseURL: "http://10.0.0.1:8080/"}
	ApplyDefaults(&cfg)

	if cfg.BaseURL != "http://10.0.0.1:8080" {
		t.Fatalf("base_url=%q", cfg.BaseURL)
	}
	if cfg.StatusInterval != 2*time.Second || cfg.HealthInterval != 2*time.Second || cfg.EventsInterval != 4*time.Second {
		t.Fatalf("intervals=%v/%v/%v", cfg.StatusInterval, cfg.HealthInterval, cfg.EventsInterval)
	}
	if cfg.LogTail != 150 || cfg.EventsWindow != 300 {
		t.Fatalf("log_tail=%d events_window=%d", cfg.LogTail, cfg.EventsWindow)
	}
	if cfg.HistoryCapacity != 60 || cfg.TimelineCapacity != 200 {
		t.Fatalf("history=%d timeline=%d", cfg.HistoryCapacity, cfg.TimelineCapacity)
	}
	if len(cfg.STUNServers) == 0 || cfg.StaleAfterPolls != 0 {
		t.Fatalf("stun=%v stale=%d", cfg.STUNServers, cfg.StaleAfterPolls)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	bad := cfg
	bad.BaseURL = "127.0.0.1:8080"
	if err := Validate(bad); err == nil {
		t.Fatalf("expected base_url error")
	}

	bad = cfg
	bad.HistoryCapacity = 1
	if err := Validate(bad); err == nil {
		t.Fatalf("expected history_capacity error")
	}

	bad = cfg
	bad.EventsInterval = -time.Second
	if err := Validate(bad); err == nil {
		t.Fatalf("expected interval error")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "sub", "wgdash.yaml")
	cfg := Config{BaseURL: "http://gw:9000", StatusInterval: 5 * time.Second, StaleAfterPolls: 3}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode=%o", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BaseURL != "http://gw:9000" || got.StatusInterval != 5*time.Second || got.StaleAfterPolls != 3 {
		t.Fatalf("cfg=%+v", got)
	}
}

func TestLoad_DurationStrings(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "c.yaml")
	data := "base_url: http://gw:1\nevents_interval: 10s\nlog_filter: handshake\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EventsInterval != 10*time.Second || cfg.LogFilter != "handshake" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

// Environment tests mutate process state and cannot run in parallel.
func TestApplyEnv(t *testing.T) {
	t.Setenv("WGDASH_BASE_URL", "http://env:1")
	t.Setenv("WGDASH_STATUS_INTERVAL", "750ms")
	t.Setenv("WGDASH_STALE_AFTER_POLLS", "4")
	t.Setenv("WGDASH_STUN_SERVERS", "a:1, b:2")

	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.BaseURL != "http://env:1" || cfg.StatusInterval != 750*time.Millisecond {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.StaleAfterPolls != 4 {
		t.Fatalf("stale=%d", cfg.StaleAfterPolls)
	}
	if len(cfg.STUNServers) != 2 || cfg.STUNServers[1] != "b:2" {
		t.Fatalf("stun=%v", cfg.STUNServers)
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("WGDASH_LOG_TAIL", "many")

	var cfg Config
	if err := ApplyEnv(&cfg); err == nil {
		t.Fatalf("expected error")
	}
}
