// Package config loads, normalizes, and validates roulette configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and DATABASE_URL. The Config type centralizes every knob the
// daemon and CLI need so the store, importer, and HTTP surface are wired from
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
