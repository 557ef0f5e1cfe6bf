package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/azkar/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("AZKAR_SESSION", "test")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	md, err := toml.Decode(defaultConfigTemplate(), &cfg)
	if err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Fatalf("unexpected keys: %v", md.Undecoded())
	}
	if !strings.Contains(defaultConfigTemplate(), `advance-delay = "600ms"`) {
		t.Fatalf("template should document the default delay")
	}
}

func TestCountPersistsAcrossRuns(t *testing.T) {
	isolate(t)
	if out, err := run(t, "count", "--set", "5"); err != nil || strings.TrimSpace(out) != "5" {
		t.Fatalf("set: %q %v", out, err)
	}
	if out, err := run(t, "count"); err != nil || strings.TrimSpace(out) != "5" {
		t.Fatalf("read back: %q %v", out, err)
	}
	if out, err := run(t, "count", "--reset"); err != nil || strings.TrimSpace(out) != "0" {
		t.Fatalf("reset: %q %v", out, err)
	}
}

func TestCountRejectsConflictingFlags(t *testing.T) {
	isolate(t)
	if _, err := run(t, "count", "--reset", "--set", "3"); err == nil {
		t.Fatalf("expected error for --reset with --set")
	}
	if _, err := run(t, "count", "--set", "-1"); err == nil {
		t.Fatalf("expected error for negative count")
	}
}

func TestNoPersistKeepsNothing(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, "count", "--no-persist", "--set", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "azkar", "azkar.db")); !os.IsNotExist(err) {
		t.Fatalf("database must not be created, stat err %v", err)
	}
	out, err := run(t, "count")
	if err != nil || strings.TrimSpace(out) != "0" {
		t.Fatalf("expected 0, got %q %v", out, err)
	}
}

func TestStorageStatsAndClear(t *testing.T) {
	isolate(t)
	if _, err := run(t, "count", "--set", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, "storage", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "persistent keys   1") {
		t.Fatalf("unexpected stats:\n%s", out)
	}
	if _, err := run(t, "storage", "clear", "--prefix", "azkar"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if out, _ := run(t, "count"); strings.TrimSpace(out) != "0" {
		t.Fatalf("expected cleared count, got %q", out)
	}
}

func TestCategoriesListsBundledDataset(t *testing.T) {
	isolate(t)
	out, err := run(t, "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if !strings.HasPrefix(out, "ID") || strings.Count(out, "\n") < 2 {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConfigFileOverridesDefaultsButNotFlags(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "azkar", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := "[playback]\nadvance-delay = \"1s\"\n[font]\nmax-scale = 3.0\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.AdvanceDelay != time.Second || cfg.MaxScale != 3.0 {
		t.Fatalf("config not applied: %+v", cfg)
	}

	cmd = newRootCmd()
	if err := cmd.ParseFlags([]string{"--delay", "50ms"}); err != nil {
		t.Fatal(err)
	}
	cfg, err = buildConfig(cmd)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.AdvanceDelay != 50*time.Millisecond {
		t.Fatalf("flag must win, got %v", cfg.AdvanceDelay)
	}
}

func TestValidateConfigRejectsBadScale(t *testing.T) {
	isolate(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	path := filepath.Join(dir, "azkar", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[font]\nmin-scale = 5.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd := newRootCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	if _, err := buildConfig(cmd); err == nil {
		t.Fatalf("expected max-scale < min-scale error")
	}
}

func TestParseLogLevel(t *testing.T) {
	if _, err := parseLogLevel("debug"); err != nil {
		t.Fatalf("debug: %v", err)
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}
