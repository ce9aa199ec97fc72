package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"roulette/internal/catalog"
	"roulette/internal/services"
)

const fixture = `
page_size: 2
movies:
  - id: 1
    title: One
    poster_path: /one.jpg
    genres: [Comedy]
    countries: [France]
    director: Someone
    cast: [A, B]
  - id: 2
    title: Two
  - id: 1
    title: Duplicate One
  - id: 3
    title: Three
    poster_path: /three.jpg
`

func TestParsePagesInFileOrder(t *testing.T) {
	c, err := catalog.Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected duplicates dropped, got %d entries", c.Len())
	}
	ctx := context.Background()

	first, err := c.PopularMovies(ctx, 1)
	if err != nil {
		t.Fatalf("PopularMovies: %v", err)
	}
	if first.TotalPages != 2 || len(first.Results) != 2 || first.Results[0].ID != 1 || first.Results[1].ID != 2 {
		t.Fatalf("unexpected first page %+v", first)
	}
	if first.Results[1].PosterPath != "" {
		t.Fatalf("expected missing poster to stay empty, got %q", first.Results[1].PosterPath)
	}

	second, err := c.PopularMovies(ctx, 2)
	if err != nil {
		t.Fatalf("PopularMovies: %v", err)
	}
	if len(second.Results) != 1 || second.Results[0].ID != 3 {
		t.Fatalf("unexpected second page %+v", second)
	}

	beyond, err := c.PopularMovies(ctx, 5)
	if err != nil || len(beyond.Results) != 0 {
		t.Fatalf("expected empty page beyond range, got %+v %v", beyond, err)
	}
}

func TestMovieDetailsCredits(t *testing.T) {
	c, err := catalog.Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	detail, err := c.MovieDetails(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	if detail.Title != "One" || len(detail.Genres) != 1 || detail.ProductionCountries[0].Name != "France" {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if detail.Credits == nil || detail.Credits.Crew[0].Job != "Director" || len(detail.Credits.Cast) != 2 {
		t.Fatalf("unexpected credits %+v", detail.Credits)
	}

	bare, err := c.MovieDetails(context.Background(), 1, false)
	if err != nil || bare.Credits != nil {
		t.Fatalf("expected no credits, got %+v %v", bare.Credits, err)
	}

	if _, err := c.MovieDetails(context.Background(), 42, true); !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream unavailable for unknown id, got %v", err)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	if _, err := catalog.Parse([]byte("movies: [ {id: 0, title: x} ]")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for zero id, got %v", err)
	}
	if _, err := catalog.Parse([]byte("movies: {")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad yaml, got %v", err)
	}
}

func TestLoadAndSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	c, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	if _, err := catalog.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	sample := catalog.Sample()
	if sample.Len() < 10 {
		t.Fatalf("expected built-in sample to have entries, got %d", sample.Len())
	}
	page, err := sample.PopularMovies(context.Background(), 1)
	if err != nil || len(page.Results) == 0 {
		t.Fatalf("sample listing failed: %v", err)
	}
}
