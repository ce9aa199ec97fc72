package movies

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"roulette/internal/tmdb"
)

// Fallback values substituted for missing or unusable upstream fields.
const (
	FallbackTitle       = "Untitled"
	FallbackYear        = 2000
	FallbackOverview    = "No description available."
	FallbackPosterURL   = "https://via.placeholder.com/300x450?text=No+Poster"
	FallbackRuntime     = 90
	FallbackGenre       = "Drama"
	FallbackCountry     = "United States"
	FallbackDirector    = "Unknown"
	FallbackCastMember  = "Unknown"
	MinOverviewRunes    = 20
	MaxGenres           = 3
	MaxCast             = 5
	RatingFactor        = 1.1
	FallbackRatingLow   = 5.0
	FallbackRatingHigh  = 8.5
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/original"
)

// Normalizer turns upstream movie details into records.
type Normalizer struct {
	ImageBaseURL string
	// Rand drives the fallback rating. A nil Rand uses the global source.
	Rand  *rand.Rand
	Clock func() time.Time
}

// Normalize builds a record from detail. Every field falls back to a fixed
// value so the result never serializes a null list or empty required field.
func (n Normalizer) Normalize(detail tmdb.MovieDetail) Record {
	now := n.now()
	rec := Record{
		TMDBID:        detail.ID,
		Title:         firstNonEmpty(detail.Title, detail.OriginalTitle, FallbackTitle),
		OriginalTitle: strings.TrimSpace(detail.OriginalTitle),
		Year:          ParseYear(detail.ReleaseDate),
		VoteAverage:   sanitizeVote(detail.VoteAverage),
		Overview:      normalizeOverview(detail.Overview),
		PosterURL:     PosterURL(n.imageBase(), detail.PosterPath),
		Runtime:       detail.Runtime,
		Genres:        normalizeGenres(detail.Genres),
		Country:       FallbackCountry,
		Director:      FallbackDirector,
		Cast:          []string{FallbackCastMember},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	rec.Rating = n.PrimaryRating(rec.VoteAverage)
	if rec.Runtime <= 0 {
		rec.Runtime = FallbackRuntime
	}
	for _, c := range detail.ProductionCountries {
		if name := strings.TrimSpace(c.Name); name != "" {
			rec.Country = name
			break
		}
	}
	if detail.Credits != nil {
		if director := findDirector(detail.Credits.Crew); director != "" {
			rec.Director = director
		}
		if cast := topCast(detail.Credits.Cast); len(cast) > 0 {
			rec.Cast = cast
		}
	}
	return rec
}

// PrimaryRating derives the displayed rating from the upstream vote average.
// A missing vote yields a random value in [FallbackRatingLow, FallbackRatingHigh].
func (n Normalizer) PrimaryRating(voteAverage float64) float64 {
	if voteAverage > 0 {
		return Round1(voteAverage * RatingFactor)
	}
	var f float64
	if n.Rand != nil {
		f = n.Rand.Float64()
	} else {
		f = rand.Float64()
	}
	return Round1(FallbackRatingLow + f*(FallbackRatingHigh-FallbackRatingLow))
}

func (n Normalizer) now() time.Time {
	if n.Clock != nil {
		return n.Clock().UTC()
	}
	return time.Now().UTC()
}

func (n Normalizer) imageBase() string {
	if base := strings.TrimSpace(n.ImageBaseURL); base != "" {
		return strings.TrimRight(base, "/")
	}
	return DefaultImageBaseURL
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ParseYear reads the leading four digits of an upstream date.
func ParseYear(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return FallbackYear
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return FallbackYear
	}
	return year
}

// PosterURL joins an upstream poster path onto the image base.
func PosterURL(imageBase, posterPath string) string {
	posterPath = strings.TrimSpace(posterPath)
	if posterPath == "" {
		return FallbackPosterURL
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return strings.TrimRight(imageBase, "/") + posterPath
}

func sanitizeVote(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func normalizeOverview(overview string) string {
	trimmed := strings.TrimSpace(overview)
	if utf8.RuneCountInString(trimmed) < MinOverviewRunes {
		return FallbackOverview
	}
	return trimmed
}

func normalizeGenres(genres []tmdb.Genre) []string {
	out := make([]string, 0, MaxGenres)
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
		if len(out) == MaxGenres {
			break
		}
	}
	if len(out) == 0 {
		return []string{FallbackGenre}
	}
	return out
}

func findDirector(crew []tmdb.CrewMember) string {
	for _, member := range crew {
		if member.Job != "Director" {
			continue
		}
		if name := strings.TrimSpace(member.Name); name != "" {
			return name
		}
	}
	return ""
}

func topCast(cast []tmdb.CastMember) []string {
	out := make([]string, 0, MaxCast)
	for _, member := range cast {
		name := strings.TrimSpace(member.Name)
		if name == "" {
			continue
		}
		out = append(out, name)
		if len(out) == MaxCast {
			break
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
