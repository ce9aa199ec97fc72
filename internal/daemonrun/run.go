package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"roulette/internal/config"
	"roulette/internal/daemon"
	"roulette/internal/logging"
	"roulette/internal/preflight"
	"roulette/internal/store"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	// Fixture imports from a YAML catalog instead of TMDB.
	Fixture string
}

// Run starts the roulette daemon and blocks until ctx is cancelled or the
// process receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logPath := logging.DailyLogPath(cfg)
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logConfigSnapshot(logger, cfg)
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: logging.LogFilePattern, Exclude: []string{logPath}},
	)
	logPreflight(signalCtx, logger, cfg)
	pidPath := filepath.Join(cfg.Paths.DataDir, "roulette.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open record store", logging.Error(err))
		return err
	}

	source, sourceName, err := daemon.SelectSource(cfg, opts.Fixture, logger)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("select catalog source: %w", err)
	}
	logger.Info("catalog source selected",
		logging.String(logging.FieldEventType, "catalog_source_selected"),
		logging.String("source", sourceName),
	)

	d, err := daemon.New(cfg, st, source, logger)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	<-signalCtx.Done()
	logger.Info("roulette daemon shutting down", logging.String(logging.FieldEventType, "daemon_shutdown"))
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.Bool("tmdb_key_present", cfg.HasTMDB()),
		logging.String("store_driver", cfg.Store.Driver),
		logging.String("api_bind", cfg.Paths.APIBind),
		logging.Bool("api_token_set", cfg.Paths.APIToken != ""),
		logging.Bool("seed_on_start", cfg.Importer.SeedOnStart),
		logging.Int("min_seed_count", cfg.Importer.MinSeedCount),
		logging.Bool("refresh_enabled", cfg.Refresh.Enabled),
		logging.Int("refresh_interval_hours", cfg.Refresh.IntervalHours),
		logging.String("no_match_policy", cfg.Selector.NoMatch),
	)
}

func logPreflight(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	for _, result := range preflight.Failed(preflight.RunAll(ctx, cfg)) {
		logging.WarnWithContext(ctx, logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldImpact, "the daemon starts anyway; affected features may not work"),
		)
	}
}
