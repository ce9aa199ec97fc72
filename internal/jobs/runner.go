package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"roulette/internal/importer"
	"roulette/internal/logging"
	"roulette/internal/services"
)

// ErrBusy reports that another import or refresh holds the runner or the
// cross-process lock.
var ErrBusy = errors.New("another import or refresh is running")

// Kind names a job type.
type Kind string

const (
	KindImport  Kind = "import"
	KindRefresh Kind = "refresh"
)

// Importer is the work a Runner schedules.
type Importer interface {
	Import(ctx context.Context, maxPages, maxNewRecords int) importer.Report
	Refresh(ctx context.Context, maxAgeDays, maxRecords int) importer.Report
}

// Limits bounds each job.
type Limits struct {
	MaxPages      int
	MaxNewRecords int
	MaxAgeDays    int
	MaxRecords    int
}

// Result describes a finished job.
type Result struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Notifier is told about every finished job.
type Notifier interface {
	NotifyJobCompleted(ctx context.Context, result Result) error
}

// Option customizes a Runner.
type Option func(*Runner)

// WithNotifier reports finished jobs to n.
func WithNotifier(n Notifier) Option {
	return func(r *Runner) {
		r.notifier = n
	}
}

// Runner executes at most one import or refresh at a time: an atomic flag
// guards the process and an exclusive file lock guards the data directory.
type Runner struct {
	base     context.Context
	importer Importer
	limits   Limits
	lock     *flock.Flock
	logger   *slog.Logger
	notifier Notifier

	busy atomic.Bool
	wg   sync.WaitGroup

	mu   sync.Mutex
	last map[Kind]Result
}

// New builds a runner. Submitted jobs run under base and stop when it is
// cancelled.
func New(base context.Context, imp Importer, lockPath string, limits Limits, logger *slog.Logger, opts ...Option) *Runner {
	if base == nil {
		base = context.Background()
	}
	r := &Runner{
		base:     base,
		importer: imp,
		limits:   limits,
		lock:     flock.New(lockPath),
		logger:   logging.NewComponentLogger(logger, "jobs"),
		last:     make(map[Kind]Result),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SubmitImport starts an import in the background and reports whether it was
// accepted. It never blocks on the job itself.
func (r *Runner) SubmitImport() bool {
	return r.submit(KindImport)
}

// SubmitRefresh starts a stale-record refresh in the background.
func (r *Runner) SubmitRefresh() bool {
	return r.submit(KindRefresh)
}

// RunImport runs an import synchronously.
func (r *Runner) RunImport(ctx context.Context) (Result, error) {
	return r.runNow(ctx, KindImport)
}

// RunRefresh runs a stale-record refresh synchronously.
func (r *Runner) RunRefresh(ctx context.Context) (Result, error) {
	return r.runNow(ctx, KindRefresh)
}

// Running reports whether a job is in progress in this process.
func (r *Runner) Running() bool {
	return r.busy.Load()
}

// Wait blocks until every submitted job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Last returns the most recent result per job kind.
func (r *Runner) Last() map[Kind]Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Kind]Result, len(r.last))
	for k, v := range r.last {
		out[k] = v
	}
	return out
}

func (r *Runner) submit(kind Kind) bool {
	if !r.busy.CompareAndSwap(false, true) {
		r.logger.Info("job submission ignored; a job is already running",
			logging.String(logging.FieldEventType, "job_rejected"),
			logging.String("kind", string(kind)),
		)
		return false
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.busy.Store(false)
		if _, err := r.execute(r.base, kind); err != nil {
			logging.WarnWithContext(r.base, r.logger, "background job did not run", "job_skipped",
				logging.String("kind", string(kind)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "another roulette process may be importing"),
				logging.String(logging.FieldImpact, "catalog not updated this time"),
			)
		}
	}()
	return true
}

func (r *Runner) runNow(ctx context.Context, kind Kind) (Result, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer r.busy.Store(false)
	return r.execute(ctx, kind)
}

func (r *Runner) execute(ctx context.Context, kind Kind) (Result, error) {
	locked, err := r.lock.TryLock()
	if err != nil {
		return Result{}, services.Wrap(services.ErrPersistence, "jobs", "lock", r.lock.Path(), err)
	}
	if !locked {
		return Result{}, fmt.Errorf("%w: %s is held", ErrBusy, r.lock.Path())
	}
	defer func() {
		if err := r.lock.Unlock(); err != nil {
			r.logger.Warn("failed to release import lock", logging.Error(err))
		}
	}()

	id := uuid.NewString()
	ctx = services.WithJobID(ctx, id)
	r.logger.InfoContext(ctx, "job started",
		logging.String(logging.FieldEventType, "job_started"),
		logging.String("kind", string(kind)),
	)

	var report importer.Report
	switch kind {
	case KindImport:
		report = r.importer.Import(ctx, r.limits.MaxPages, r.limits.MaxNewRecords)
	case KindRefresh:
		report = r.importer.Refresh(ctx, r.limits.MaxAgeDays, r.limits.MaxRecords)
	default:
		return Result{}, fmt.Errorf("unknown job kind %q", kind)
	}

	result := Result{
		ID:         id,
		Kind:       kind,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Added:      report.Added,
		Updated:    report.Updated,
		Skipped:    report.Count(importer.OutcomeSkippedNoPoster) + report.Count(importer.OutcomeSkippedDuplicate),
		Failed:     report.Count(importer.OutcomeFailed) + report.PageFailures,
	}
	r.mu.Lock()
	r.last[kind] = result
	r.mu.Unlock()

	if r.notifier != nil {
		if err := r.notifier.NotifyJobCompleted(ctx, result); err != nil {
			logging.WarnWithContext(ctx, r.logger, "job notification failed", "notification_failed",
				logging.String("kind", string(kind)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			)
		}
	}
	return result, nil
}
