// Package jobs schedules catalog imports and stale-record refreshes so that
// only one runs at a time, within a process and across processes sharing a
// data directory.
package jobs
