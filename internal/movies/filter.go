package movies

import (
	"fmt"
	"strings"

	"roulette/internal/services"
)

// Filter narrows random picks. Zero values mean "no constraint".
type Filter struct {
	Genres    []string `json:"genres,omitempty"`
	YearFrom  int      `json:"year_from,omitempty"`
	YearTo    int      `json:"year_to,omitempty"`
	RatingMin float64  `json:"rating_min,omitempty"`
}

// Normalized returns a copy with genres trimmed, lowercased, and deduplicated.
func (f Filter) Normalized() Filter {
	out := f
	out.Genres = nil
	seen := make(map[string]struct{}, len(f.Genres))
	for _, g := range f.Genres {
		key := strings.ToLower(strings.TrimSpace(g))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Genres = append(out.Genres, key)
	}
	return out
}

// Validate rejects bounds that can never match.
func (f Filter) Validate() error {
	if f.YearFrom < 0 || f.YearTo < 0 {
		return services.Wrap(services.ErrValidation, "filter", "validate", "year bounds must not be negative", nil)
	}
	if f.YearFrom > 0 && f.YearTo > 0 && f.YearFrom > f.YearTo {
		return services.Wrap(services.ErrValidation, "filter", "validate",
			fmt.Sprintf("year_from %d is after year_to %d", f.YearFrom, f.YearTo), nil)
	}
	if f.RatingMin < 0 {
		return services.Wrap(services.ErrValidation, "filter", "validate", "rating_min must not be negative", nil)
	}
	return nil
}

// IsEmpty reports whether f constrains nothing.
func (f Filter) IsEmpty() bool {
	return len(f.Genres) == 0 && f.YearFrom == 0 && f.YearTo == 0 && f.RatingMin == 0
}

// Matches reports whether r satisfies every supplied predicate. Genres match
// when any of them equals any record genre, ignoring case.
func (f Filter) Matches(r Record) bool {
	if f.YearFrom > 0 && r.Year < f.YearFrom {
		return false
	}
	if f.YearTo > 0 && r.Year > f.YearTo {
		return false
	}
	if f.RatingMin > 0 && r.Rating < f.RatingMin {
		return false
	}
	if len(f.Genres) == 0 {
		return true
	}
	for _, g := range f.Genres {
		if r.HasGenre(g) {
			return true
		}
	}
	return false
}
