package movies_test

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"roulette/internal/movies"
	"roulette/internal/tmdb"
)

func fixedNormalizer() movies.Normalizer {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return movies.Normalizer{
		ImageBaseURL: "https://img.example/t/p/original/",
		Rand:         rand.New(rand.NewPCG(1, 2)),
		Clock:        func() time.Time { return now },
	}
}

func TestNormalizeFullDetail(t *testing.T) {
	detail := tmdb.MovieDetail{
		ID:            603,
		Title:         "The Matrix",
		OriginalTitle: "The Matrix",
		Overview:      "A hacker learns the truth about his reality.",
		ReleaseDate:   "1999-03-30",
		PosterPath:    "/matrix.jpg",
		VoteAverage:   8.2,
		Runtime:       136,
		Genres: []tmdb.Genre{
			{Name: "Action"}, {Name: "action"}, {Name: "Science Fiction"}, {Name: "Thriller"}, {Name: "Drama"},
		},
		ProductionCountries: []tmdb.Country{{Name: ""}, {Name: "United States of America"}},
		Credits: &tmdb.Credits{
			Cast: []tmdb.CastMember{{Name: "Keanu Reeves"}, {Name: ""}, {Name: "Laurence Fishburne"}, {Name: "Carrie-Anne Moss"}, {Name: "Hugo Weaving"}, {Name: "Joe Pantoliano"}, {Name: "Extra"}},
			Crew: []tmdb.CrewMember{{Name: "Bill Pope", Job: "Director of Photography"}, {Name: "Lana Wachowski", Job: "Director"}, {Name: "Lilly Wachowski", Job: "Director"}},
		},
	}

	rec := fixedNormalizer().Normalize(detail)

	if rec.TMDBID != 603 || rec.Title != "The Matrix" || rec.Year != 1999 {
		t.Fatalf("unexpected identity fields: %+v", rec)
	}
	if rec.Rating != 9.0 {
		t.Fatalf("expected rating 9.0 (8.2*1.1 rounded), got %v", rec.Rating)
	}
	if rec.VoteAverage != 8.2 {
		t.Fatalf("expected vote average kept, got %v", rec.VoteAverage)
	}
	if rec.PosterURL != "https://img.example/t/p/original/matrix.jpg" {
		t.Fatalf("unexpected poster url %q", rec.PosterURL)
	}
	if got := strings.Join(rec.Genres, ","); got != "Action,Science Fiction,Thriller" {
		t.Fatalf("expected three deduplicated genres, got %q", got)
	}
	if rec.Country != "United States of America" {
		t.Fatalf("unexpected country %q", rec.Country)
	}
	if rec.Director != "Lana Wachowski" {
		t.Fatalf("expected first director, got %q", rec.Director)
	}
	if len(rec.Cast) != 5 || rec.Cast[0] != "Keanu Reeves" || rec.Cast[4] != "Joe Pantoliano" {
		t.Fatalf("expected top five named cast, got %v", rec.Cast)
	}
	if rec.Runtime != 136 {
		t.Fatalf("unexpected runtime %d", rec.Runtime)
	}
	if rec.CreatedAt.IsZero() || !rec.CreatedAt.Equal(rec.UpdatedAt) {
		t.Fatalf("expected timestamps set, got %v %v", rec.CreatedAt, rec.UpdatedAt)
	}
}

func TestNormalizeFallbacks(t *testing.T) {
	rec := fixedNormalizer().Normalize(tmdb.MovieDetail{ID: 7, ReleaseDate: "n/a", Overview: "  too short  ", Runtime: -3})

	if rec.Title != movies.FallbackTitle {
		t.Fatalf("expected fallback title, got %q", rec.Title)
	}
	if rec.Year != movies.FallbackYear {
		t.Fatalf("expected fallback year, got %d", rec.Year)
	}
	if rec.Overview != movies.FallbackOverview {
		t.Fatalf("expected placeholder overview, got %q", rec.Overview)
	}
	if rec.PosterURL != movies.FallbackPosterURL {
		t.Fatalf("expected placeholder poster, got %q", rec.PosterURL)
	}
	if rec.Runtime != movies.FallbackRuntime {
		t.Fatalf("expected fallback runtime, got %d", rec.Runtime)
	}
	if len(rec.Genres) != 1 || rec.Genres[0] != movies.FallbackGenre {
		t.Fatalf("expected fallback genre, got %v", rec.Genres)
	}
	if rec.Country != movies.FallbackCountry || rec.Director != movies.FallbackDirector {
		t.Fatalf("expected fallback country/director, got %q %q", rec.Country, rec.Director)
	}
	if len(rec.Cast) != 1 || rec.Cast[0] != movies.FallbackCastMember {
		t.Fatalf("expected fallback cast, got %v", rec.Cast)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(payload), "null") {
		t.Fatalf("expected no null values, got %s", payload)
	}
}

func TestNormalizeUsesOriginalTitleWhenLocalizedMissing(t *testing.T) {
	rec := fixedNormalizer().Normalize(tmdb.MovieDetail{ID: 1, Title: "  ", OriginalTitle: "Amélie"})
	if rec.Title != "Amélie" || rec.OriginalTitle != "Amélie" {
		t.Fatalf("unexpected titles %q %q", rec.Title, rec.OriginalTitle)
	}
}

func TestZeroVoteUsesFallbackRatingRange(t *testing.T) {
	n := fixedNormalizer()
	for i := 0; i < 500; i++ {
		rec := n.Normalize(tmdb.MovieDetail{ID: int64(i + 1), VoteAverage: 0})
		if rec.Rating < movies.FallbackRatingLow || rec.Rating > movies.FallbackRatingHigh {
			t.Fatalf("rating %v outside fallback range", rec.Rating)
		}
		if rec.Rating != movies.Round1(rec.Rating) {
			t.Fatalf("rating %v not rounded to one decimal", rec.Rating)
		}
		if rec.VoteAverage != 0 {
			t.Fatalf("expected vote average 0, got %v", rec.VoteAverage)
		}
	}
}

func TestPrimaryRatingWithGlobalSource(t *testing.T) {
	var n movies.Normalizer
	got := n.PrimaryRating(0)
	if got < movies.FallbackRatingLow || got > movies.FallbackRatingHigh {
		t.Fatalf("rating %v outside fallback range", got)
	}
	if n.PrimaryRating(7.0) != 7.7 {
		t.Fatalf("expected 7.7, got %v", n.PrimaryRating(7.0))
	}
}

func TestParseYear(t *testing.T) {
	cases := map[string]int{
		"2015-06-01": 2015,
		"1999":       1999,
		"":           movies.FallbackYear,
		"19":         movies.FallbackYear,
		"abcd-01-01": movies.FallbackYear,
		"0000-01-01": movies.FallbackYear,
	}
	for input, want := range cases {
		if got := movies.ParseYear(input); got != want {
			t.Fatalf("ParseYear(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestPosterURLAddsSlash(t *testing.T) {
	if got := movies.PosterURL("https://img.example", "p.jpg"); got != "https://img.example/p.jpg" {
		t.Fatalf("unexpected url %q", got)
	}
}
