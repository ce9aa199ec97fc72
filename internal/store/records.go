package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roulette/internal/movies"
	"roulette/internal/services"
)

const insertRecordSQL = `INSERT INTO movies (
    tmdb_id, title, original_title, year, rating, vote_average, overview,
    poster_url, runtime, genres_json, country, director, cast_json, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (tmdb_id) DO NOTHING
RETURNING id`

// InsertBatch persists records in one transaction and returns the ones that
// were actually inserted, with IDs assigned. Records whose TMDB ID is already
// stored are skipped. Any other failure rolls back the whole batch.
func (s *Store) InsertBatch(ctx context.Context, records []movies.Record) ([]movies.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}
	var inserted []movies.Record
	err := retryOnBusy(ctx, func() error {
		var err error
		inserted, err = s.insertBatchOnce(ctx, records)
		return err
	})
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "store", "insert batch",
			fmt.Sprintf("%d records discarded", len(records)), err)
	}
	return inserted, nil
}

func (s *Store) insertBatchOnce(ctx context.Context, records []movies.Record) ([]movies.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(insertRecordSQL))
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := make([]movies.Record, 0, len(records))
	for _, rec := range records {
		args, err := recordArgs(rec)
		if err != nil {
			return nil, fmt.Errorf("tmdb_id %d: %w", rec.TMDBID, err)
		}
		var id int64
		err = stmt.QueryRowContext(ctx, args...).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert tmdb_id %d: %w", rec.TMDBID, err)
		}
		rec.ID = id
		inserted = append(inserted, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert tx: %w", err)
	}
	return inserted, nil
}

// All returns every stored record ordered by ID.
func (s *Store) All(ctx context.Context) ([]movies.Record, error) {
	return s.list(ctx, `SELECT `+recordColumns+` FROM movies ORDER BY id`)
}

// GetByID fetches a record by local identifier. A missing record yields nil, nil.
func (s *Store) GetByID(ctx context.Context, id int64) (*movies.Record, error) {
	rec, err := scanRecord(s.queryRow(ctx, `SELECT `+recordColumns+` FROM movies WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "store", "get", "", err)
	}
	return &rec, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.queryRow(ctx, `SELECT COUNT(1) FROM movies`).Scan(&count); err != nil {
		return 0, services.Wrap(services.ErrPersistence, "store", "count", "", err)
	}
	return count, nil
}

// KnownTMDBIDs reports which of ids are already stored.
func (s *Store) KnownTMDBIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	known := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return known, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.query(ctx, `SELECT tmdb_id FROM movies WHERE tmdb_id IN (`+makePlaceholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "store", "known ids", "", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, services.Wrap(services.ErrPersistence, "store", "known ids", "scan", err)
		}
		known[id] = true
	}
	return known, rows.Err()
}

// Stale returns up to limit records last updated before cutoff, oldest first.
func (s *Store) Stale(ctx context.Context, cutoff time.Time, limit int) ([]movies.Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.list(ctx,
		`SELECT `+recordColumns+` FROM movies WHERE updated_at < ? ORDER BY updated_at, id LIMIT ?`,
		formatTime(cutoff), limit)
}

// Recent returns the limit most recently created records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]movies.Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.list(ctx, `SELECT `+recordColumns+` FROM movies ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// UpdateRatings stores refreshed ratings and bumps updated_at.
func (s *Store) UpdateRatings(ctx context.Context, id int64, rating, voteAverage float64, at time.Time) error {
	if _, err := s.exec(ctx,
		`UPDATE movies SET rating = ?, vote_average = ?, updated_at = ? WHERE id = ?`,
		rating, voteAverage, formatTime(at), id); err != nil {
		return services.Wrap(services.ErrPersistence, "store", "update ratings", fmt.Sprintf("id %d", id), err)
	}
	return nil
}

// Touch bumps updated_at without changing ratings.
func (s *Store) Touch(ctx context.Context, id int64, at time.Time) error {
	if _, err := s.exec(ctx, `UPDATE movies SET updated_at = ? WHERE id = ?`, formatTime(at), id); err != nil {
		return services.Wrap(services.ErrPersistence, "store", "touch", fmt.Sprintf("id %d", id), err)
	}
	return nil
}

// Clear removes every record and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM movies`)
	if err != nil {
		return 0, services.Wrap(services.ErrPersistence, "store", "clear", "", err)
	}
	return res.RowsAffected()
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]movies.Record, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "store", "query", "", err)
	}
	defer rows.Close()

	var records []movies.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrPersistence, "store", "scan", "", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "store", "iterate", "", err)
	}
	return records, nil
}
