package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"roulette/internal/movies"
)

const recordColumns = "id, tmdb_id, title, original_title, year, rating, vote_average, overview, poster_url, runtime, genres_json, country, director, cast_json, created_at, updated_at"

// timeLayout is fixed-width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(raw, fallback string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || len(out) == 0 {
		return []string{fallback}
	}
	return out
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (movies.Record, error) {
	var (
		rec        movies.Record
		genresRaw  string
		castRaw    string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.TMDBID,
		&rec.Title,
		&rec.OriginalTitle,
		&rec.Year,
		&rec.Rating,
		&rec.VoteAverage,
		&rec.Overview,
		&rec.PosterURL,
		&rec.Runtime,
		&genresRaw,
		&rec.Country,
		&rec.Director,
		&castRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return movies.Record{}, err
	}
	rec.Genres = decodeList(genresRaw, movies.FallbackGenre)
	rec.Cast = decodeList(castRaw, movies.FallbackCastMember)
	if created, err := parseTimeString(createdRaw); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		rec.UpdatedAt = updated
	}
	return rec, nil
}

func recordArgs(rec movies.Record) ([]any, error) {
	genres, err := encodeList(rec.Genres)
	if err != nil {
		return nil, fmt.Errorf("encode genres: %w", err)
	}
	cast, err := encodeList(rec.Cast)
	if err != nil {
		return nil, fmt.Errorf("encode cast: %w", err)
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = created
	}
	return []any{
		rec.TMDBID,
		rec.Title,
		rec.OriginalTitle,
		rec.Year,
		rec.Rating,
		rec.VoteAverage,
		rec.Overview,
		rec.PosterURL,
		rec.Runtime,
		genres,
		rec.Country,
		rec.Director,
		cast,
		formatTime(created),
		formatTime(updated),
	}, nil
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
