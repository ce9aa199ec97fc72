// Package catalog reads static movie lists from YAML and serves them through
// the same popular-listing and detail operations as the TMDB client. It backs
// offline imports (roulette import --fixture) and ships a small built-in
// sample used when no TMDB key is configured.
package catalog
