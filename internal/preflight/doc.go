// Package preflight provides readiness checks for the directories, record
// store, and upstream catalog that roulette depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and logs every failed check.
//   - The CLI "roulette check" command prints the results as a table and
//     exits non-zero when any check fails.
//
// A missing TMDB key is not a failure: the built-in sample catalog is used.
package preflight
