package selector_test

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"roulette/internal/logging"
	"roulette/internal/movies"
	"roulette/internal/selector"
	"roulette/internal/services"
	"roulette/internal/session"
	"roulette/internal/testsupport"
)

type memStore struct {
	records []movies.Record
	err     error
}

func (m *memStore) All(context.Context) ([]movies.Record, error) {
	return m.records, m.err
}

func record(id int64, year int, rating float64, genres ...string) movies.Record {
	rec := testsupport.Record(id, year, rating, genres...)
	rec.ID = id
	return rec
}

func fixture() *memStore {
	return &memStore{records: []movies.Record{
		record(1, 1994, 9.1, "Drama", "Crime"),
		record(2, 1999, 8.8, "Action", "Science Fiction"),
		record(3, 2010, 7.2, "Comedy"),
		record(4, 2015, 6.1, "Horror", "Thriller"),
		record(5, 2021, 7.9, "Animation", "Family"),
	}}
}

func TestPickHonoursEveryPredicate(t *testing.T) {
	sel := selector.New(fixture(), logging.NewNop(), selector.WithRand(rand.New(rand.NewPCG(1, 2))))
	filter := movies.Filter{Genres: []string{"DRAMA", "comedy"}, YearFrom: 1990, YearTo: 2012, RatingMin: 7.5}
	for i := 0; i < 50; i++ {
		res, err := sel.Pick(context.Background(), filter)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		if res.Record.ID != 1 || res.Fallback {
			t.Fatalf("only record 1 satisfies all predicates, got %+v", res)
		}
	}
}

func TestPickGenreUsesEqualityNotSubstring(t *testing.T) {
	sel := selector.New(fixture(), logging.NewNop())
	_, err := sel.Pick(context.Background(), movies.Filter{Genres: []string{"fiction"}})
	if !errors.Is(err, services.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch for partial genre, got %v", err)
	}
	res, err := sel.Pick(context.Background(), movies.Filter{Genres: []string{"science fiction"}})
	if err != nil || res.Record.ID != 2 {
		t.Fatalf("expected record 2, got %+v %v", res, err)
	}
}

func TestPickBoundsAreInclusive(t *testing.T) {
	sel := selector.New(fixture(), logging.NewNop())
	res, err := sel.Pick(context.Background(), movies.Filter{YearFrom: 2015, YearTo: 2015, RatingMin: 6.1})
	if err != nil || res.Record.ID != 4 {
		t.Fatalf("expected record 4 at exact bounds, got %+v %v", res, err)
	}
}

func TestPickNoMatchPolicies(t *testing.T) {
	filter := movies.Filter{YearFrom: 2030}

	notFound := selector.New(fixture(), logging.NewNop())
	if _, err := notFound.Pick(context.Background(), filter); !errors.Is(err, services.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}

	unfiltered := selector.New(fixture(), logging.NewNop(), selector.WithNoMatchPolicy(selector.NoMatchUnfiltered))
	res, err := unfiltered.Pick(context.Background(), filter)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if !res.Fallback || res.Record.ID == 0 {
		t.Fatalf("expected flagged fallback pick, got %+v", res)
	}
}

func TestPickEmptyStore(t *testing.T) {
	for _, policy := range []string{selector.NoMatchNotFound, selector.NoMatchUnfiltered} {
		sel := selector.New(&memStore{}, logging.NewNop(), selector.WithNoMatchPolicy(policy))
		if _, err := sel.Pick(context.Background(), movies.Filter{}); !errors.Is(err, services.ErrNoMatch) {
			t.Fatalf("%s: expected ErrNoMatch on empty store, got %v", policy, err)
		}
	}
}

func TestPickRejectsInvertedYears(t *testing.T) {
	sel := selector.New(fixture(), logging.NewNop())
	_, err := sel.Pick(context.Background(), movies.Filter{YearFrom: 2020, YearTo: 2000})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPickStoreFailureIsPersistenceError(t *testing.T) {
	sel := selector.New(&memStore{err: errors.New("boom")}, logging.NewNop())
	if _, err := sel.Pick(context.Background(), movies.Filter{}); !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestPickIsUniform(t *testing.T) {
	store := fixture()
	sel := selector.New(store, logging.NewNop(), selector.WithRand(rand.New(rand.NewPCG(42, 7))))
	const draws = 10000
	counts := map[int64]int{}
	for i := 0; i < draws; i++ {
		res, err := sel.Pick(context.Background(), movies.Filter{})
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		counts[res.Record.ID]++
	}
	expected := float64(draws) / float64(len(store.records))
	var chi2 float64
	for _, rec := range store.records {
		diff := float64(counts[rec.ID]) - expected
		chi2 += diff * diff / expected
	}
	// 4 degrees of freedom, p = 0.001
	if chi2 > 18.47 || math.IsNaN(chi2) {
		t.Fatalf("distribution not uniform: chi2=%.2f counts=%v", chi2, counts)
	}
}

func TestPickForRecordsSession(t *testing.T) {
	sessions := session.NewStore(0, logging.NewNop())
	sel := selector.New(fixture(), logging.NewNop(), selector.WithRecorder(sessions))
	ctx := context.Background()

	res, err := sel.PickFor(ctx, "visitor", movies.Filter{Genres: []string{"comedy"}})
	if err != nil {
		t.Fatalf("PickFor: %v", err)
	}
	recent := sessions.Recent("visitor")
	if len(recent) != 1 || recent[0].ID != res.Record.ID {
		t.Fatalf("expected pick recorded, got %+v", recent)
	}

	if _, err := sel.PickFor(ctx, "visitor", movies.Filter{YearFrom: 3000}); err == nil {
		t.Fatal("expected no match")
	}
	if len(sessions.Recent("visitor")) != 1 {
		t.Fatal("failed pick must not touch the recency list")
	}
}

func TestGenresSortedDistinctLowercase(t *testing.T) {
	store := fixture()
	store.records = append(store.records, record(6, 2000, 7, "drama", "COMEDY"))
	got := selector.New(store, logging.NewNop()).Genres(context.Background())
	want := []string{"action", "animation", "comedy", "crime", "drama", "family", "horror", "science fiction", "thriller"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestGenresFallsBackToDefaults(t *testing.T) {
	for name, store := range map[string]*memStore{
		"empty":  {},
		"broken": {err: errors.New("boom")},
	} {
		got := selector.New(store, logging.NewNop()).Genres(context.Background())
		if !slices.Equal(got, selector.DefaultGenres) {
			t.Fatalf("%s: expected default genres, got %v", name, got)
		}
	}
}
