package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"roulette/internal/jobs"
	"roulette/internal/logging"
	"roulette/internal/movies"
	"roulette/internal/selector"
	"roulette/internal/store"
)

// Picker serves random picks and the genre catalog.
type Picker interface {
	PickFor(ctx context.Context, sessionID string, filter movies.Filter) (selector.Result, error)
	Genres(ctx context.Context) []string
}

// Sessions exposes per-visitor recency lists.
type Sessions interface {
	Recent(sessionID string) []movies.Summary
	Len() int
}

// Records is the read side of the record store.
type Records interface {
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context) (store.Stats, error)
	Driver() string
}

// Jobs schedules imports and refreshes.
type Jobs interface {
	SubmitImport() bool
	SubmitRefresh() bool
	RunImport(ctx context.Context) (jobs.Result, error)
	RunRefresh(ctx context.Context) (jobs.Result, error)
	Running() bool
	Last() map[jobs.Kind]jobs.Result
}

// Options configures a Server.
type Options struct {
	Picker       Picker
	Sessions     Sessions
	Records      Records
	Jobs         Jobs
	CookieName   string
	SecureCookie bool
	// Token, when set, is required as a bearer token on job endpoints.
	Token  string
	Logger *slog.Logger
}

// Server routes API requests to the roulette components.
type Server struct {
	picker       Picker
	sessions     Sessions
	records      Records
	jobs         Jobs
	cookieName   string
	secureCookie bool
	token        string
	logger       *slog.Logger
	router       chi.Router
}

// NewServer builds the API router.
func NewServer(opts Options) *Server {
	s := &Server{
		picker:       opts.Picker,
		sessions:     opts.Sessions,
		records:      opts.Records,
		jobs:         opts.Jobs,
		cookieName:   opts.CookieName,
		secureCookie: opts.SecureCookie,
		token:        opts.Token,
		logger:       logging.NewComponentLogger(opts.Logger, "api"),
	}
	if s.cookieName == "" {
		s.cookieName = "roulette_session"
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.session)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/genres", s.handleGenres)
		r.Post("/random", s.handleRandom)
		r.Get("/recent", s.handleRecent)
		r.Get("/stats", s.handleStats)
		r.Get("/status", s.handleStatus)
		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Post("/refresh", s.handleImport)
			r.Post("/refresh/stale", s.handleRefreshStale)
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
