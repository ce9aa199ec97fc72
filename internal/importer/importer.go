package importer

import (
	"context"
	"log/slog"
	"time"

	"roulette/internal/logging"
	"roulette/internal/movies"
	"roulette/internal/tmdb"
)

// Source is the upstream catalog: a paged popular listing and per-item detail.
type Source interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.PopularPage, error)
	MovieDetails(ctx context.Context, movieID int64, withCredits bool) (*tmdb.MovieDetail, error)
}

// Store is the persistence the importer writes to.
type Store interface {
	KnownTMDBIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	InsertBatch(ctx context.Context, records []movies.Record) ([]movies.Record, error)
	Stale(ctx context.Context, cutoff time.Time, limit int) ([]movies.Record, error)
	UpdateRatings(ctx context.Context, id int64, rating, voteAverage float64, at time.Time) error
	Touch(ctx context.Context, id int64, at time.Time) error
}

const defaultCallTimeout = 10 * time.Second

// Importer pulls records from a Source into a Store.
type Importer struct {
	source      Source
	store       Store
	normalizer  movies.Normalizer
	callTimeout time.Duration
	clock       func() time.Time
	logger      *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithCallTimeout bounds every single upstream call.
func WithCallTimeout(timeout time.Duration) Option {
	return func(i *Importer) {
		if timeout > 0 {
			i.callTimeout = timeout
		}
	}
}

// WithNormalizer overrides how upstream details become records.
func WithNormalizer(n movies.Normalizer) Option {
	return func(i *Importer) {
		i.normalizer = n
	}
}

// WithClock overrides the time source used for refresh timestamps and cutoffs.
func WithClock(clock func() time.Time) Option {
	return func(i *Importer) {
		if clock != nil {
			i.clock = clock
		}
	}
}

// New builds an importer.
func New(source Source, store Store, logger *slog.Logger, opts ...Option) *Importer {
	i := &Importer{
		source:      source,
		store:       store,
		callTimeout: defaultCallTimeout,
		clock:       time.Now,
		logger:      logging.NewComponentLogger(logger, "importer"),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.normalizer.Clock == nil {
		i.normalizer.Clock = i.clock
	}
	return i
}

func (i *Importer) now() time.Time {
	return i.clock().UTC()
}

func (i *Importer) withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, i.callTimeout)
}
