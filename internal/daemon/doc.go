// Package daemon coordinates the long-running roulette process.
//
// It wires the record store, importer, job runner, session table, and HTTP
// API into a single lifecycle with flock-based locking to prevent two daemons
// sharing a data directory. On start it seeds a sparse store, then refreshes
// stale ratings on a ticker until stopped.
//
// Keep orchestration here: importing, picking, and persistence live in their
// own packages while the daemon owns startup, shutdown, and scheduling.
package daemon
