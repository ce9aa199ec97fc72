package selector

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"roulette/internal/logging"
	"roulette/internal/movies"
	"roulette/internal/services"
)

// No-match policies.
const (
	NoMatchNotFound   = "not_found"
	NoMatchUnfiltered = "unfiltered"
)

// DefaultGenres is served when the store holds no genres or cannot be read.
var DefaultGenres = []string{
	"action", "adventure", "animation", "comedy", "crime", "documentary",
	"drama", "family", "fantasy", "horror", "romance", "science fiction",
	"thriller",
}

// Store is the record source picks are drawn from.
type Store interface {
	All(ctx context.Context) ([]movies.Record, error)
}

// Recorder receives every successful per-session pick.
type Recorder interface {
	Push(sessionID string, summary movies.Summary)
}

// Result is a picked record. Fallback is set when the filter matched nothing
// and the unfiltered policy chose from the whole store instead.
type Result struct {
	Record   movies.Record `json:"movie"`
	Fallback bool          `json:"fallback"`
}

// Selector picks uniformly random records matching a filter.
type Selector struct {
	store    Store
	recorder Recorder
	noMatch  string
	rand     *rand.Rand
	logger   *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithNoMatchPolicy selects not_found (default) or unfiltered.
func WithNoMatchPolicy(policy string) Option {
	return func(s *Selector) {
		if policy = strings.ToLower(strings.TrimSpace(policy)); policy != "" {
			s.noMatch = policy
		}
	}
}

// WithRand fixes the random source, mainly for tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		s.rand = r
	}
}

// WithRecorder sets where PickFor records session picks.
func WithRecorder(r Recorder) Option {
	return func(s *Selector) {
		s.recorder = r
	}
}

// New builds a selector over store.
func New(store Store, logger *slog.Logger, opts ...Option) *Selector {
	s := &Selector{
		store:   store,
		noMatch: NoMatchNotFound,
		logger:  logging.NewComponentLogger(logger, "selector"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pick returns one record chosen uniformly at random among those matching
// filter. With nothing matching it returns ErrNoMatch, or under the unfiltered
// policy a pick from the whole store flagged as a fallback.
func (s *Selector) Pick(ctx context.Context, filter movies.Filter) (Result, error) {
	filter = filter.Normalized()
	if err := filter.Validate(); err != nil {
		return Result{}, err
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return Result{}, services.Wrap(services.ErrPersistence, "selector", "pick", "load records", err)
	}

	candidates := make([]movies.Record, 0, len(all))
	for _, rec := range all {
		if filter.Matches(rec) {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) > 0 {
		return Result{Record: candidates[s.intN(len(candidates))]}, nil
	}

	if s.noMatch == NoMatchUnfiltered && !filter.IsEmpty() && len(all) > 0 {
		s.logger.DebugContext(ctx, "no record matched filter; picking unfiltered",
			logging.Any("genres", filter.Genres),
			logging.Int("year_from", filter.YearFrom),
			logging.Int("year_to", filter.YearTo),
			logging.Float64("rating_min", filter.RatingMin),
		)
		return Result{Record: all[s.intN(len(all))], Fallback: true}, nil
	}
	return Result{}, services.Wrap(services.ErrNoMatch, "selector", "pick", "no movies match the filter", nil)
}

// PickFor picks like Pick and pushes the result onto sessionID's recency list.
func (s *Selector) PickFor(ctx context.Context, sessionID string, filter movies.Filter) (Result, error) {
	result, err := s.Pick(ctx, filter)
	if err != nil {
		return Result{}, err
	}
	if s.recorder != nil && strings.TrimSpace(sessionID) != "" {
		s.recorder.Push(sessionID, result.Record.Summary())
	}
	return result, nil
}

// Genres returns the sorted distinct lowercase genres in the store. It never
// returns an empty list.
func (s *Selector) Genres(ctx context.Context) []string {
	all, err := s.store.All(ctx)
	if err != nil {
		logging.WarnWithContext(ctx, s.logger, "genre scan failed; serving defaults", "genres_fallback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the record store"),
			logging.String(logging.FieldImpact, "genre list may not reflect stored movies"),
		)
		return slices.Clone(DefaultGenres)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range all {
		for _, g := range rec.LowerGenres() {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return slices.Clone(DefaultGenres)
	}
	slices.Sort(out)
	return out
}

func (s *Selector) intN(n int) int {
	if s.rand != nil {
		return s.rand.IntN(n)
	}
	return rand.IntN(n)
}
