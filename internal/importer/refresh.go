package importer

import (
	"context"

	"roulette/internal/logging"
)

// RefreshStale re-fetches ratings for up to maxRecords records not updated in
// maxAgeDays and returns how many were updated.
func (i *Importer) RefreshStale(ctx context.Context, maxAgeDays, maxRecords int) int {
	return i.Refresh(ctx, maxAgeDays, maxRecords).Updated
}

// Refresh runs RefreshStale and returns the per-item report. A positive
// upstream vote average replaces both stored ratings; otherwise the stored
// ratings are kept. Either way a successful fetch bumps the update time.
func (i *Importer) Refresh(ctx context.Context, maxAgeDays, maxRecords int) (report Report) {
	report = Report{Kind: "refresh", StartedAt: i.now(), Items: []ItemOutcome{}}
	defer func() {
		report.FinishedAt = i.now()
		i.logger.InfoContext(ctx, "refresh finished",
			logging.String(logging.FieldEventType, "refresh_finished"),
			logging.Int("updated", report.Updated),
			logging.Int("failed", report.Count(OutcomeFailed)),
			logging.Duration("duration", report.Duration()),
		)
	}()
	if maxRecords <= 0 {
		return report
	}
	if maxAgeDays < 0 {
		maxAgeDays = 0
	}

	cutoff := i.now().AddDate(0, 0, -maxAgeDays)
	stale, err := i.store.Stale(ctx, cutoff, maxRecords)
	if err != nil {
		logging.WarnWithContext(ctx, i.logger, "stale record lookup failed; refresh skipped", "refresh_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the record store"),
			logging.String(logging.FieldImpact, "ratings stay as they are until the next refresh"),
		)
		return report
	}

	for _, rec := range stale {
		if ctx.Err() != nil {
			break
		}
		outcome := ItemOutcome{TMDBID: rec.TMDBID, Title: rec.Title, Outcome: OutcomeRefreshed}
		detail, err := i.fetchDetail(ctx, rec.TMDBID, false)
		if err == nil {
			at := i.now()
			if detail.VoteAverage > 0 {
				err = i.store.UpdateRatings(ctx, rec.ID, i.normalizer.PrimaryRating(detail.VoteAverage), detail.VoteAverage, at)
			} else {
				err = i.store.Touch(ctx, rec.ID, at)
			}
		}
		if err != nil {
			outcome.Outcome = OutcomeFailed
			outcome.Reason = err.Error()
			report.add(outcome)
			logging.WarnWithContext(ctx, i.logger, "rating refresh failed; record left unchanged", "refresh_item_failed",
				logging.Int64(logging.FieldTMDBID, rec.TMDBID),
				logging.Int64("id", rec.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the record is retried on the next refresh"),
				logging.String(logging.FieldImpact, "rating may be out of date"),
			)
			continue
		}
		report.add(outcome)
		report.Updated++
	}
	return report
}
