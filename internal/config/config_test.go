package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Font.MinScale != nil || cfg.Playback.AdvanceDelay != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[font]
min-scale = 1.0
default-scale = 2.0

[playback]
advance-delay = "250ms"

[storage]
disable-persistent = true

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Font.MinScale == nil || *cfg.Font.MinScale != 1.0 {
		t.Fatalf("unexpected min-scale %+v", cfg.Font.MinScale)
	}
	if cfg.Font.MaxScale != nil {
		t.Fatalf("max-scale should be unset")
	}
	if cfg.Playback.AdvanceDelay == nil || *cfg.Playback.AdvanceDelay != "250ms" {
		t.Fatalf("unexpected advance-delay")
	}
	if cfg.Storage.DisablePersistent == nil || !*cfg.Storage.DisablePersistent {
		t.Fatalf("unexpected disable-persistent")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[font]\nsize = 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := DefaultDBPath(); got != filepath.Join(dir, "azkar", "azkar.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(dir, "azkar", "azkar.log") {
		t.Fatalf("unexpected log path %s", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join(dir, "azkar", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
}
