// Package movies holds the stored movie record, its compact summary, pick
// filters, and the normalization rules that turn upstream TMDB details into
// records with a deterministic fallback for every field.
package movies
