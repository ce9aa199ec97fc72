// Package store persists movie records in SQLite (modernc driver, the default)
// or PostgreSQL (lib/pq).
//
// The movies table enforces uniqueness on tmdb_id; batch inserts run in one
// transaction and use ON CONFLICT DO NOTHING so a record already inserted by a
// concurrent import is skipped rather than failing the batch. Queries are
// written with ? placeholders and rebound for postgres. SQLite writes retry on
// SQLITE_BUSY with bounded backoff.
//
// Schema changes bump schemaVersion in schema.go; users clear the database to
// adopt the new schema.
package store
