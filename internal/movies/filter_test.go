package movies_test

import (
	"errors"
	"testing"

	"roulette/internal/movies"
	"roulette/internal/services"
)

func TestFilterMatches(t *testing.T) {
	rec := movies.Record{Year: 2012, Rating: 7.5, Genres: []string{"Comedy", "Romance"}}

	cases := []struct {
		name   string
		filter movies.Filter
		want   bool
	}{
		{"empty", movies.Filter{}, true},
		{"year inside", movies.Filter{YearFrom: 2010, YearTo: 2015}, true},
		{"year inclusive bounds", movies.Filter{YearFrom: 2012, YearTo: 2012}, true},
		{"year before", movies.Filter{YearFrom: 2013}, false},
		{"year after", movies.Filter{YearTo: 2011}, false},
		{"rating inclusive", movies.Filter{RatingMin: 7.5}, true},
		{"rating too high", movies.Filter{RatingMin: 7.6}, false},
		{"genre case-insensitive", movies.Filter{Genres: []string{"COMEDY"}}, true},
		{"genre or semantics", movies.Filter{Genres: []string{"horror", "romance"}}, true},
		{"genre miss", movies.Filter{Genres: []string{"horror"}}, false},
		{"genre substring is not a match", movies.Filter{Genres: []string{"com"}}, false},
		{"and across categories", movies.Filter{Genres: []string{"comedy"}, YearFrom: 2013}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Normalized().Matches(rec); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterNormalized(t *testing.T) {
	f := movies.Filter{Genres: []string{" Comedy ", "comedy", "", "Drama"}}.Normalized()
	if len(f.Genres) != 2 || f.Genres[0] != "comedy" || f.Genres[1] != "drama" {
		t.Fatalf("unexpected genres %v", f.Genres)
	}
	if !(movies.Filter{Genres: []string{" "}}).Normalized().IsEmpty() {
		t.Fatal("expected blank genres to normalize to an empty filter")
	}
}

func TestFilterValidate(t *testing.T) {
	if err := (movies.Filter{YearFrom: 2015, YearTo: 2010}).Validate(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := (movies.Filter{RatingMin: -1}).Validate(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := (movies.Filter{YearFrom: 2010}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRecordSummaryAndGenres(t *testing.T) {
	rec := movies.Record{ID: 3, TMDBID: 30, Title: "X", PosterURL: "p", Rating: 6.6, Year: 2001, Genres: []string{"Science Fiction"}}
	s := rec.Summary()
	if s.ID != 3 || s.TMDBID != 30 || s.Title != "X" || s.PosterURL != "p" || s.Rating != 6.6 || s.Year != 2001 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if got := rec.LowerGenres(); len(got) != 1 || got[0] != "science fiction" {
		t.Fatalf("unexpected lower genres %v", got)
	}
}
