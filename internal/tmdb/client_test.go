package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roulette/internal/services"
	"roulette/internal/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
	if _, err := tmdb.New("key", " ", "en-US"); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestPopularMoviesRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/popular" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "key" || q.Get("page") != "2" || q.Get("language") != "ru-RU" || q.Get("region") != "RU" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":2,"total_pages":7,"results":[{"id":11,"title":"Star Wars","poster_path":"/p.jpg","vote_average":8.2}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL+"/", "ru-RU", tmdb.WithRegion("ru"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	page, err := client.PopularMovies(context.Background(), 2)
	if err != nil {
		t.Fatalf("PopularMovies returned error: %v", err)
	}
	if page.TotalPages != 7 || len(page.Results) != 1 {
		t.Fatalf("unexpected page: %#v", page)
	}
	item := page.Results[0]
	if item.ID != 11 || item.PosterPath != "/p.jpg" || item.VoteAverage != 8.2 {
		t.Fatalf("unexpected item: %#v", item)
	}
}

func TestMovieDetailsWithCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Errorf("expected credits to be appended, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"runtime": 136,
			"genres": [{"id": 28, "name": "Action"}],
			"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
			"credits": {
				"cast": [{"name": "Keanu Reeves", "order": 0}],
				"crew": [{"name": "Lana Wachowski", "job": "Director"}]
			}
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	detail, err := client.MovieDetails(context.Background(), 603, true)
	if err != nil {
		t.Fatalf("MovieDetails returned error: %v", err)
	}
	if detail.Runtime != 136 || len(detail.Genres) != 1 || detail.Genres[0].Name != "Action" {
		t.Fatalf("unexpected detail: %#v", detail)
	}
	if detail.Credits == nil || len(detail.Credits.Crew) != 1 || detail.Credits.Crew[0].Job != "Director" {
		t.Fatalf("expected credits, got %#v", detail.Credits)
	}
	if detail.ProductionCountries[0].ISO != "US" {
		t.Fatalf("unexpected country: %#v", detail.ProductionCountries)
	}
}

func TestMovieDetailsWithoutCreditsOmitsAppend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("append_to_response") {
			t.Errorf("did not expect append_to_response, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id": 5, "vote_average": 6.4}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	detail, err := client.MovieDetails(context.Background(), 5, false)
	if err != nil {
		t.Fatalf("MovieDetails returned error: %v", err)
	}
	if detail.Credits != nil {
		t.Fatalf("expected nil credits, got %#v", detail.Credits)
	}
}

func TestNon200IsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status_code":25}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.PopularMovies(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
	var statusErr *tmdb.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected StatusError with 429, got %v", err)
	}
	if !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream unavailable marker, got %v", err)
	}
}

func TestUndecodableBodyIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "not a number"`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.MovieDetails(context.Background(), 1, false); !errors.Is(err, services.ErrMalformedField) {
		t.Fatalf("expected malformed marker, got %v", err)
	}
}

func TestUnreachableIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := tmdb.New("key", url, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.PopularMovies(context.Background(), 1); !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
}

func TestTransportErrorOmitsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := tmdb.New("sekrit-key-123", url, "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.MovieDetails(context.Background(), 7, true)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "sekrit-key-123") {
		t.Fatalf("error leaks api key: %v", err)
	}
	if !strings.Contains(err.Error(), "api_key=REDACTED") {
		t.Fatalf("expected redacted query in error, got %v", err)
	}
}

func TestInvalidArguments(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.PopularMovies(context.Background(), 0); err == nil {
		t.Fatal("expected error for page 0")
	}
	if _, err := client.MovieDetails(context.Background(), -1, true); err == nil {
		t.Fatal("expected error for negative id")
	}
}
