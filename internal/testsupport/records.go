package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"roulette/internal/movies"
	"roulette/internal/store"
)

// Record builds a fully populated record for tests.
func Record(tmdbID int64, year int, rating float64, genres ...string) movies.Record {
	if len(genres) == 0 {
		genres = []string{movies.FallbackGenre}
	}
	now := time.Now().UTC()
	return movies.Record{
		TMDBID:        tmdbID,
		Title:         fmt.Sprintf("Movie %d", tmdbID),
		OriginalTitle: fmt.Sprintf("Movie %d", tmdbID),
		Year:          year,
		Rating:        rating,
		VoteAverage:   movies.Round1(rating / movies.RatingFactor),
		Overview:      "A perfectly ordinary test film overview.",
		PosterURL:     fmt.Sprintf("https://image.example/%d.jpg", tmdbID),
		Runtime:       100,
		Genres:        genres,
		Country:       movies.FallbackCountry,
		Director:      "Test Director",
		Cast:          []string{"Lead Actor"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MustInsert stores records and returns them with IDs assigned.
func MustInsert(t testing.TB, st *store.Store, records ...movies.Record) []movies.Record {
	t.Helper()

	inserted, err := st.InsertBatch(context.Background(), records)
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if len(inserted) != len(records) {
		t.Fatalf("expected %d inserted records, got %d", len(records), len(inserted))
	}
	return inserted
}
