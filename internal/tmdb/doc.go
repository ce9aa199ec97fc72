// Package tmdb implements the small slice of The Movie Database v3 API the
// importer needs: the popular movies listing and per-movie details with
// optional credits.
//
// Transport failures and non-200 answers are reported as errors that match
// services.ErrUpstreamUnavailable; undecodable bodies match
// services.ErrMalformedField.
package tmdb
