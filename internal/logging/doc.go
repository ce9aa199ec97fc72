// Package logging assembles structured slog loggers and formatting helpers used
// across the roulette service.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and tags records logged with a context with the request, session,
// and job identifiers stored there. The package also provides a no-op logger
// for tests and wiring code that cannot fail, plus retention pruning of old
// log files.
package logging
