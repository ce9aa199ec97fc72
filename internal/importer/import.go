package importer

import (
	"context"
	"fmt"
	"strings"

	"roulette/internal/logging"
	"roulette/internal/movies"
	"roulette/internal/tmdb"
)

// ImportBatch imports up to maxNewRecords new records from at most maxPages
// listing pages and returns how many were added.
func (i *Importer) ImportBatch(ctx context.Context, maxPages, maxNewRecords int) int {
	return i.Import(ctx, maxPages, maxNewRecords).Added
}

// Import runs ImportBatch and returns the per-item report. It never fails:
// upstream and persistence errors are recorded per item or per page and the
// run moves on.
func (i *Importer) Import(ctx context.Context, maxPages, maxNewRecords int) (report Report) {
	report = Report{Kind: "import", StartedAt: i.now(), Items: []ItemOutcome{}}
	defer func() {
		report.FinishedAt = i.now()
		i.logger.InfoContext(ctx, "import finished",
			logging.String(logging.FieldEventType, "import_finished"),
			logging.Int("added", report.Added),
			logging.Int("pages_fetched", report.PagesFetched),
			logging.Int("page_failures", report.PageFailures),
			logging.Int("skipped_no_poster", report.Count(OutcomeSkippedNoPoster)),
			logging.Int("skipped_duplicate", report.Count(OutcomeSkippedDuplicate)),
			logging.Int("failed", report.Count(OutcomeFailed)),
			logging.Duration("duration", report.Duration()),
		)
	}()
	if maxPages <= 0 || maxNewRecords <= 0 {
		return report
	}

	i.logger.InfoContext(ctx, "import started",
		logging.String(logging.FieldEventType, "import_started"),
		logging.Int("max_pages", maxPages),
		logging.Int("max_new_records", maxNewRecords),
	)

	for page := 1; page <= maxPages && report.Added < maxNewRecords; page++ {
		if ctx.Err() != nil {
			break
		}
		listing, err := i.fetchPage(ctx, page)
		if err != nil {
			report.PageFailures++
			logging.WarnWithContext(ctx, i.logger, "popular page fetch failed; page skipped", "import_page_failed",
				logging.Int("page", page),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access and the TMDB API key"),
				logging.String(logging.FieldImpact, "no movies imported from this page"),
			)
			continue
		}
		report.PagesFetched++
		i.importPage(ctx, page, listing.Results, maxNewRecords, &report)
		if len(listing.Results) == 0 || (listing.TotalPages > 0 && page >= listing.TotalPages) {
			break
		}
	}
	return report
}

func (i *Importer) fetchPage(ctx context.Context, page int) (*tmdb.PopularPage, error) {
	callCtx, cancel := i.withCallTimeout(ctx)
	defer cancel()
	return i.source.PopularMovies(callCtx, page)
}

func (i *Importer) fetchDetail(ctx context.Context, id int64, withCredits bool) (*tmdb.MovieDetail, error) {
	callCtx, cancel := i.withCallTimeout(ctx)
	defer cancel()
	return i.source.MovieDetails(callCtx, id, withCredits)
}

func (i *Importer) importPage(ctx context.Context, page int, items []tmdb.ListItem, maxNewRecords int, report *Report) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.PosterPath) != "" {
			ids = append(ids, item.ID)
		}
	}
	known, err := i.store.KnownTMDBIDs(ctx, ids)
	if err != nil {
		report.PageFailures++
		logging.WarnWithContext(ctx, i.logger, "known id lookup failed; page skipped", "import_page_failed",
			logging.Int("page", page),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the record store"),
			logging.String(logging.FieldImpact, "no movies imported from this page"),
		)
		return
	}

	pending := make([]movies.Record, 0, len(items))
	pendingIDs := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if report.Added+len(pending) >= maxNewRecords || ctx.Err() != nil {
			break
		}
		outcome := ItemOutcome{Page: page, TMDBID: item.ID, Title: item.Title}
		if strings.TrimSpace(item.PosterPath) == "" {
			outcome.Outcome = OutcomeSkippedNoPoster
			report.add(outcome)
			continue
		}
		if _, dup := pendingIDs[item.ID]; dup || known[item.ID] {
			outcome.Outcome = OutcomeSkippedDuplicate
			report.add(outcome)
			continue
		}

		detail, err := i.fetchDetail(ctx, item.ID, true)
		if err != nil {
			outcome.Outcome = OutcomeFailed
			outcome.Reason = err.Error()
			report.add(outcome)
			logging.WarnWithContext(ctx, i.logger, "movie detail fetch failed; movie skipped", "import_item_failed",
				logging.Int64(logging.FieldTMDBID, item.ID),
				logging.Int("page", page),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "transient upstream errors clear on the next import"),
				logging.String(logging.FieldImpact, "movie not imported"),
			)
			continue
		}
		if strings.TrimSpace(detail.PosterPath) == "" {
			detail.PosterPath = item.PosterPath
		}
		if detail.ID == 0 {
			detail.ID = item.ID
		}
		pending = append(pending, i.normalizer.Normalize(*detail))
		pendingIDs[item.ID] = struct{}{}
	}
	if len(pending) == 0 {
		return
	}

	inserted, err := i.store.InsertBatch(ctx, pending)
	if err != nil {
		for _, rec := range pending {
			report.add(ItemOutcome{Page: page, TMDBID: rec.TMDBID, Title: rec.Title, Outcome: OutcomeFailed, Reason: err.Error()})
		}
		logging.WarnWithContext(ctx, i.logger, "batch insert failed; batch discarded", "import_batch_failed",
			logging.Int("page", page),
			logging.Int("batch_size", len(pending)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check disk space and database permissions"),
			logging.String(logging.FieldImpact, fmt.Sprintf("%d movies not imported", len(pending))),
		)
		return
	}

	stored := make(map[int64]struct{}, len(inserted))
	for _, rec := range inserted {
		stored[rec.TMDBID] = struct{}{}
	}
	for _, rec := range pending {
		outcome := ItemOutcome{Page: page, TMDBID: rec.TMDBID, Title: rec.Title, Outcome: OutcomeAdded}
		if _, ok := stored[rec.TMDBID]; !ok {
			outcome.Outcome = OutcomeSkippedDuplicate
			outcome.Reason = "inserted concurrently"
		}
		report.add(outcome)
	}
	report.Added += len(inserted)
	i.logger.DebugContext(ctx, "page imported",
		logging.Int("page", page),
		logging.Int("inserted", len(inserted)),
		logging.Int("pending", len(pending)),
	)
}
