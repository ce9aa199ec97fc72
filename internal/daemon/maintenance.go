package daemon

import (
	"context"
	"errors"
	"time"

	"roulette/internal/jobs"
	"roulette/internal/logging"
)

// seed imports a batch when the store holds fewer records than the configured
// minimum.
func (d *Daemon) seed(ctx context.Context) {
	count, err := d.store.Count(ctx)
	if err != nil {
		logging.WarnWithContext(ctx, d.logger, "record count failed; seeding skipped", "seed_skipped",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the record store"),
			logging.String(logging.FieldImpact, "store may stay empty until a manual import"),
		)
		return
	}
	if count >= d.cfg.Importer.MinSeedCount {
		d.logger.Debug("store already seeded", logging.Int("records", count))
		return
	}

	d.logger.Info("seeding sparse store",
		logging.String(logging.FieldEventType, "seed_started"),
		logging.Int("records", count),
		logging.Int("min_seed_count", d.cfg.Importer.MinSeedCount),
	)
	result, err := d.runner.RunImport(ctx)
	if err != nil {
		if errors.Is(err, jobs.ErrBusy) {
			d.logger.Info("seed skipped; another import is running", logging.String(logging.FieldEventType, "seed_skipped"))
			return
		}
		logging.WarnWithContext(ctx, d.logger, "seed import failed", "seed_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'roulette import' manually"),
			logging.String(logging.FieldImpact, "store may stay sparse"),
		)
		return
	}
	d.logger.Info("seed finished",
		logging.String(logging.FieldEventType, "seed_finished"),
		logging.Int("added", result.Added),
	)
}

// refreshLoop submits a stale-record refresh every refresh interval.
func (d *Daemon) refreshLoop(ctx context.Context) {
	interval := d.cfg.RefreshInterval()
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !d.runner.SubmitRefresh() {
				d.logger.Debug("refresh tick skipped; a job is running")
			}
		}
	}
}
