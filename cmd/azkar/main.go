// Package main provides the CLI entrypoint for azkar.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/azkar/internal/config"
	"github.com/verte-zerg/azkar/internal/dataset"
	"github.com/verte-zerg/azkar/internal/model"
	"github.com/verte-zerg/azkar/internal/playback"
	"github.com/verte-zerg/azkar/internal/prefs"
	"github.com/verte-zerg/azkar/internal/progress"
	"github.com/verte-zerg/azkar/internal/report"
	"github.com/verte-zerg/azkar/internal/storage"
	"github.com/verte-zerg/azkar/internal/tui"
)

const (
	defaultMinScale       = 1.4
	defaultMaxScale       = 4.0
	defaultScale          = 2.8
	defaultScaleIncrement = 0.2
	defaultAdvanceDelay   = 600 * time.Millisecond
	defaultSessionTTL     = 24 * time.Hour
	defaultLogLevel       = "info"
)

var (
	appDataset    string
	appDelay      time.Duration
	appDB         string
	appCategory   int
	appNoPersist  bool
	appLogLevel   string
	appSessionTTL time.Duration

	storageSession bool
	storagePrefix  string

	countReset bool
	countSet   int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "azkar",
		Short:         "Azkar counter in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAppCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&appDataset, "dataset", "", "dataset JSON file (default: bundled)")
	pf.StringVar(&appDB, "db", "", "SQLite database path (default: $XDG_DATA_HOME/azkar/azkar.db)")
	pf.BoolVar(&appNoPersist, "no-persist", false, "keep preferences in memory only")
	pf.StringVar(&appLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	pf.DurationVar(&appSessionTTL, "session-ttl", defaultSessionTTL, "forget progress of other sessions idle this long")
	rootCmd.Flags().DurationVar(&appDelay, "delay", defaultAdvanceDelay, "pause before moving to the next phrase")
	rootCmd.Flags().IntVar(&appCategory, "category", 0, "open a category directly")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newStorageCmd())
	rootCmd.AddCommand(newCountCmd())

	return rootCmd
}

// app bundles what every command needs once configuration is resolved.
type app struct {
	cfg     model.Config
	log     *slog.Logger
	local   *storage.Storage
	session *storage.Storage
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logErrf("failed to close: %v\n", err)
		}
	}
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	a.log = logger
	a.closers = append(a.closers, closeLog)
	a.openStores()
	return a, nil
}

func buildConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := model.Config{
		MinScale:          defaultMinScale,
		MaxScale:          defaultMaxScale,
		DefaultScale:      defaultScale,
		ScaleIncrement:    defaultScaleIncrement,
		AdvanceDelay:      appDelay,
		DatasetPath:       appDataset,
		CategoryID:        appCategory,
		DBPath:            appDB,
		SessionID:         storage.SessionIDFromEnv(),
		SessionTTL:        appSessionTTL,
		DisablePersistent: appNoPersist,
		LogLevel:          appLogLevel,
		LogFile:           config.DefaultLogPath(),
	}
	applyFloatConfig(&cfg.MinScale, fileCfg.Font.MinScale)
	applyFloatConfig(&cfg.MaxScale, fileCfg.Font.MaxScale)
	applyFloatConfig(&cfg.DefaultScale, fileCfg.Font.DefaultScale)
	applyFloatConfig(&cfg.ScaleIncrement, fileCfg.Font.ScaleIncrement)
	applyStringConfig(cmd, "dataset", &cfg.DatasetPath, fileCfg.Playback.Dataset)
	applyStringConfig(cmd, "db", &cfg.DBPath, fileCfg.Storage.DB)
	applyBoolConfig(cmd, "no-persist", &cfg.DisablePersistent, fileCfg.Storage.DisablePersistent)
	applyStringConfig(cmd, "log-level", &cfg.LogLevel, fileCfg.Log.Level)
	if fileCfg.Log.File != nil {
		cfg.LogFile = *fileCfg.Log.File
	}
	if err := applyDurationConfig(cmd, "delay", &cfg.AdvanceDelay, fileCfg.Playback.AdvanceDelay); err != nil {
		return model.Config{}, err
	}
	if err := applyDurationConfig(cmd, "session-ttl", &cfg.SessionTTL, fileCfg.Storage.SessionTTL); err != nil {
		return model.Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = config.DefaultDBPath()
	}

	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg model.Config) (*slog.Logger, func() error, error) {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = io.Discard
	closeFn := func() error { return nil }
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// openStores wires the persistent and session-scoped storages. A database
// that cannot be opened leaves both on their in-memory fallback.
func (a *app) openStores() {
	if a.cfg.DisablePersistent {
		a.local = storage.New(nil, a.log)
		a.session = storage.New(nil, a.log)
		return
	}
	db, err := storage.Open(a.cfg.DBPath)
	if err != nil {
		a.log.Warn("failed to open database, preferences will not persist", "path", a.cfg.DBPath, "err", err)
		a.local = storage.New(nil, a.log)
		a.session = storage.New(nil, a.log)
		return
	}
	a.closers = append(a.closers, db.Close)
	if a.cfg.SessionTTL > 0 {
		cutoff := time.Now().Add(-a.cfg.SessionTTL)
		if n, err := db.PruneSessions(context.Background(), a.cfg.SessionID, cutoff); err != nil {
			a.log.Warn("failed to prune sessions", "err", err)
		} else if n > 0 {
			a.log.Debug("pruned stale session progress", "rows", n)
		}
	}
	a.local = storage.New(db.Persistent(), a.log)
	a.session = storage.New(db.Session(a.cfg.SessionID), a.log.With("store", "session"))
}

func runAppCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("azkar needs an interactive terminal (see: azkar --help for subcommands)")
	}
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	set, err := dataset.Load(a.cfg.DatasetPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if a.cfg.CategoryID != 0 {
		if _, ok := set.Find(a.cfg.CategoryID); !ok {
			return fmt.Errorf("unknown category %d (see: azkar categories)", a.cfg.CategoryID)
		}
	}

	p := prefs.Load(a.local, a.cfg.Font())
	pb := playback.New(set, p.Shuffle, p.TotalCount, progress.New(a.session), nil)
	m := tui.NewModel(set, p, pb, a.cfg.AdvanceDelay, a.cfg.CategoryID)
	program := tea.NewProgram(m, tea.WithAltScreen())
	a.log.Info("starting", "session", a.cfg.SessionID, "persistent", a.local.Available())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesCmd,
	}
}

func runCategoriesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	set, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	return writeLines(cmd.OutOrStdout(), report.Categories(set.Categories()))
}

func newStorageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect or clear stored preferences and progress",
	}
	cmd.PersistentFlags().BoolVar(&storageSession, "session", false, "use the session-scoped store")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Args:  cobra.NoArgs,
		RunE:  runStorageStatsCmd,
	}
	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored keys",
		Args:  cobra.NoArgs,
		RunE:  runStorageClearCmd,
	}
	clear.Flags().StringVar(&storagePrefix, "prefix", "", "only remove keys starting with this prefix")
	cmd.AddCommand(stats, clear)
	return cmd
}

func selectedStore(a *app) (string, *storage.Storage) {
	if storageSession {
		return "session " + a.cfg.SessionID, a.session
	}
	return "local", a.local
}

func runStorageStatsCmd(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	name, st := selectedStore(a)
	return writeLines(cmd.OutOrStdout(), report.Storage(name, st.Stats()))
}

func runStorageClearCmd(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	name, st := selectedStore(a)
	if !st.Clear(storagePrefix) {
		return fmt.Errorf("failed to clear %s store", name)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s store\n", name)
	return err
}

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Show or change the lifetime tap count",
		Args:  cobra.NoArgs,
		RunE:  runCountCmd,
	}
	cmd.Flags().BoolVar(&countReset, "reset", false, "reset the count to zero")
	cmd.Flags().IntVar(&countSet, "set", 0, "set the count")
	return cmd
}

func runCountCmd(cmd *cobra.Command, _ []string) error {
	if countReset && cmd.Flags().Changed("set") {
		return fmt.Errorf("--reset and --set are mutually exclusive")
	}
	if countSet < 0 {
		return fmt.Errorf("--set must be >= 0")
	}
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	total := prefs.NewTotalCount(a.local)
	switch {
	case countReset:
		total.Reset()
	case cmd.Flags().Changed("set"):
		total.Set(countSet)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(total.Value()))
	return err
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(target, value *float64) {
	if value == nil {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# azkar configuration
# Uncomment a value to enable it. CLI flags override config values.

[font]
# min-scale = %.1f        # Smallest font scale
# max-scale = %.1f        # Largest font scale
# default-scale = %.1f    # Scale used until changed
# scale-increment = %.1f  # Step for +/- keys

[playback]
# advance-delay = %q   # Pause before moving to the next phrase
# dataset = ""             # Dataset JSON file (default: bundled)

[storage]
# db = ""                  # SQLite path (default: $XDG_DATA_HOME/azkar/azkar.db)
# session-ttl = %q       # Forget progress of other sessions idle this long
# disable-persistent = false

[log]
# level = %q            # debug, info, warn, error
# file = ""                # Log file (default: $XDG_STATE_HOME/azkar/azkar.log)
`,
		defaultMinScale,
		defaultMaxScale,
		defaultScale,
		defaultScaleIncrement,
		defaultAdvanceDelay.String(),
		defaultSessionTTL.String(),
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.MinScale <= 0 {
		return fmt.Errorf("font min-scale must be > 0")
	}
	if cfg.MaxScale < cfg.MinScale {
		return fmt.Errorf("font max-scale must be >= min-scale")
	}
	if cfg.DefaultScale < cfg.MinScale || cfg.DefaultScale > cfg.MaxScale {
		return fmt.Errorf("font default-scale must be between min-scale and max-scale")
	}
	if cfg.ScaleIncrement <= 0 {
		return fmt.Errorf("font scale-increment must be > 0")
	}
	if cfg.AdvanceDelay < 0 {
		return fmt.Errorf("--delay must be >= 0")
	}
	if cfg.SessionTTL < 0 {
		return fmt.Errorf("--session-ttl must be >= 0")
	}
	if cfg.CategoryID < 0 {
		return fmt.Errorf("--category must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
