package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"roulette/internal/api"
	"roulette/internal/config"
	"roulette/internal/importer"
	"roulette/internal/jobs"
	"roulette/internal/logging"
	"roulette/internal/movies"
	"roulette/internal/notifications"
	"roulette/internal/selector"
	"roulette/internal/session"
	"roulette/internal/store"
)

// Daemon runs the API server and background catalog maintenance.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	importer *importer.Importer
	sessions *session.Store
	selector *selector.Selector

	lockPath string
	lock     *flock.Flock

	mu     sync.Mutex
	runner *jobs.Runner
	api    *apiServer
	wg     sync.WaitGroup

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon importing from source into st.
func New(cfg *config.Config, st *store.Store, source importer.Source, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || source == nil {
		return nil, errors.New("daemon requires config, store, and catalog source")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	sessions := session.NewStore(cfg.SessionIdleTTL(), logger,
		session.WithMaxSessions(cfg.Session.MaxSessions),
	)
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		importer: NewImporter(cfg, st, source, logger),
		sessions: sessions,
		selector: selector.New(st, logger,
			selector.WithNoMatchPolicy(cfg.Selector.NoMatch),
			selector.WithRecorder(sessions),
		),
		lockPath: cfg.DaemonLockPath(),
		lock:     flock.New(cfg.DaemonLockPath()),
	}, nil
}

// Start acquires the daemon lock, starts the API server, and launches seeding,
// the refresh ticker, and the session janitor.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another roulette daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	runner := jobs.New(d.ctx, d.importer, d.cfg.ImportLockPath(), LimitsFromConfig(d.cfg), d.logger,
		jobs.WithNotifier(notifications.NewService(d.cfg)),
	)
	server := newAPIServer(d.cfg.Paths.APIBind, api.NewServer(api.Options{
		Picker:       d.selector,
		Sessions:     d.sessions,
		Records:      d.store,
		Jobs:         runner,
		CookieName:   d.cfg.Session.CookieName,
		SecureCookie: d.cfg.Session.SecureCookie,
		Token:        d.cfg.Paths.APIToken,
		Logger:       d.logger,
	}), d.logger)
	if err := server.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx, d.cancel = nil, nil
		return err
	}

	d.mu.Lock()
	d.runner = runner
	d.api = server
	d.mu.Unlock()

	d.spawn(func(ctx context.Context) { d.sessions.RunJanitor(ctx, 0) })
	if d.cfg.Importer.SeedOnStart {
		d.spawn(d.seed)
	}
	if d.cfg.Refresh.Enabled {
		d.spawn(d.refreshLoop)
	}

	d.running.Store(true)
	d.logger.Info("roulette daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("lock", d.lockPath),
		logging.String("api", server.address()),
		logging.String("store", d.store.Location()),
	)
	return nil
}

// Stop shuts the API server down, waits for background work, and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Lock()
	server, runner := d.api, d.runner
	d.mu.Unlock()
	server.stop()
	d.wg.Wait()
	if runner != nil {
		runner.Wait()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("roulette daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// APIAddress is the address the API server listens on, empty before Start.
func (d *Daemon) APIAddress() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.api == nil {
		return ""
	}
	return d.api.address()
}

func (d *Daemon) spawn(fn func(ctx context.Context)) {
	ctx := d.ctx
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn(ctx)
	}()
}

// LimitsFromConfig maps importer and refresh settings onto job limits.
func LimitsFromConfig(cfg *config.Config) jobs.Limits {
	return jobs.Limits{
		MaxPages:      cfg.Importer.MaxPages,
		MaxNewRecords: cfg.Importer.MaxNewRecords,
		MaxAgeDays:    cfg.Refresh.MaxAgeDays,
		MaxRecords:    cfg.Refresh.MaxRecords,
	}
}

// NewImporter builds an importer configured from cfg.
func NewImporter(cfg *config.Config, st *store.Store, source importer.Source, logger *slog.Logger) *importer.Importer {
	return importer.New(source, st, logger,
		importer.WithCallTimeout(cfg.TMDBRequestTimeout()),
		importer.WithNormalizer(movies.Normalizer{ImageBaseURL: cfg.TMDB.ImageBaseURL, Clock: time.Now}),
	)
}
