package api

import (
	"roulette/internal/jobs"
	"roulette/internal/movies"
)

// MovieResponse is a picked movie. Fallback is set when the filter matched
// nothing and an unfiltered pick was served instead.
type MovieResponse struct {
	movies.Record
	Fallback bool `json:"fallback,omitempty"`
}

// ErrorResponse carries a human-readable failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AcceptedResponse answers an asynchronous job submission.
type AcceptedResponse struct {
	Accepted bool   `json:"accepted"`
	Kind     string `json:"kind"`
}

// JobResponse answers a job run with ?wait=true.
type JobResponse struct {
	jobs.Result
	Total int `json:"total"`
}

// StatusResponse summarizes the service.
type StatusResponse struct {
	Records    int                       `json:"records"`
	JobRunning bool                      `json:"job_running"`
	LastJobs   map[jobs.Kind]jobs.Result `json:"last_jobs"`
	Sessions   int                       `json:"sessions"`
	Store      string                    `json:"store"`
}
