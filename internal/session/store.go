package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"roulette/internal/logging"
	"roulette/internal/movies"
)

const (
	defaultIdleTTL     = 24 * time.Hour
	defaultMaxSessions = 10000
)

type entry struct {
	recent   RecencyList
	lastSeen time.Time
}

// Store keeps one recency list per session ID in memory. Sessions untouched
// for longer than the idle TTL are dropped by Expire. At most maxSessions are
// held; a new session past the cap evicts the least recently seen one.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	ttl         time.Duration
	maxSessions int
	clock       func() time.Time
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for idle tracking.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMaxSessions caps the number of live sessions. Non-positive values keep
// the default of 10000.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// NewStore returns an empty session table. A non-positive ttl uses 24h.
func NewStore(ttl time.Duration, logger *slog.Logger, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	s := &Store{
		sessions:    make(map[string]*entry),
		ttl:         ttl,
		maxSessions: defaultMaxSessions,
		clock:       time.Now,
		logger:      logging.NewComponentLogger(logger, "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push records summary as the newest pick for sessionID.
func (s *Store) Push(sessionID string, summary movies.Summary) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		if len(s.sessions) >= s.maxSessions {
			s.evictOldestLocked()
		}
		e = &entry{}
		s.sessions[sessionID] = e
	}
	e.recent.Push(summary)
	e.lastSeen = s.clock()
}

// Recent returns the recency list for sessionID, newest first. Unknown
// sessions yield an empty, non-nil slice.
func (s *Store) Recent(sessionID string) []movies.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return []movies.Summary{}
	}
	e.lastSeen = s.clock()
	return e.recent.Items()
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		s.logger.Debug("session table full; evicted least recently seen session",
			logging.Int("max_sessions", s.maxSessions),
		)
	}
}

// Expire drops idle sessions and returns how many were removed.
func (s *Store) Expire() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.clock().Add(-s.ttl)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor calls Expire every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Expire(); removed > 0 {
				s.logger.Debug("expired idle sessions",
					logging.Int("removed", removed),
					logging.Int("remaining", s.Len()),
				)
			}
		}
	}
}
