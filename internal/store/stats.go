package store

import (
	"context"
	"database/sql"

	"roulette/internal/movies"
	"roulette/internal/services"
)

// RecentStatsLimit is the number of newest records reported by Stats.
const RecentStatsLimit = 5

// Stats summarizes the store contents.
type Stats struct {
	Total         int              `json:"total"`
	AverageRating float64          `json:"average_rating"`
	Recent        []movies.Summary `json:"recent"`
}

// Stats returns the record count, the mean rating rounded to one decimal, and
// the newest records.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		total int
		avg   sql.NullFloat64
	)
	if err := s.queryRow(ctx, `SELECT COUNT(1), AVG(rating) FROM movies`).Scan(&total, &avg); err != nil {
		return Stats{}, services.Wrap(services.ErrPersistence, "store", "stats", "", err)
	}
	recent, err := s.Recent(ctx, RecentStatsLimit)
	if err != nil {
		return Stats{}, err
	}
	out := Stats{Total: total, Recent: make([]movies.Summary, 0, len(recent))}
	if avg.Valid {
		out.AverageRating = movies.Round1(avg.Float64)
	}
	for _, rec := range recent {
		out.Recent = append(out.Recent, rec.Summary())
	}
	return out, nil
}
