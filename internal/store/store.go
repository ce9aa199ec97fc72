package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"roulette/internal/config"
	"roulette/internal/services"
)

// Store persists movie records in SQLite or PostgreSQL.
type Store struct {
	db       *sql.DB
	dialect  dialect
	location string
}

// Open connects to the backend selected by cfg.Store.Driver and prepares the schema.
func Open(cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return OpenPostgres(cfg.Store.DSN)
	default:
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure directories: %w", err)
		}
		return OpenSQLite(cfg.SQLitePath())
	}
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	return finishOpen(db, dialectSQLite, path)
}

// OpenPostgres connects using a lib/pq DSN.
func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrPersistence, "store", "connect", "ping postgres", err)
	}

	return finishOpen(db, dialectPostgres, "postgres")
}

func finishOpen(db *sql.DB, d dialect, location string) (*Store, error) {
	s := &Store{db: db, dialect: d, location: location}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver names the backend in use.
func (s *Store) Driver() string {
	return s.dialect.String()
}

// Location is the sqlite file path, or "postgres".
func (s *Store) Location() string {
	return s.location
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	query = s.dialect.rebind(query)
	err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return res, err
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}
