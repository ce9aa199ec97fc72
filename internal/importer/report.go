package importer

import "time"

// Outcome classifies what happened to one upstream item.
type Outcome string

const (
	OutcomeAdded            Outcome = "added"
	OutcomeSkippedNoPoster  Outcome = "skipped_no_poster"
	OutcomeSkippedDuplicate Outcome = "skipped_duplicate"
	OutcomeRefreshed        Outcome = "refreshed"
	OutcomeFailed           Outcome = "failed"
)

// ItemOutcome records the fate of one upstream item.
type ItemOutcome struct {
	Page    int     `json:"page,omitempty"`
	TMDBID  int64   `json:"tmdb_id"`
	Title   string  `json:"title,omitempty"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// Report summarizes an import or refresh run. Failures are recorded here and
// logged, never returned.
type Report struct {
	Kind         string        `json:"kind"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	PagesFetched int           `json:"pages_fetched,omitempty"`
	PageFailures int           `json:"page_failures,omitempty"`
	Added        int           `json:"added"`
	Updated      int           `json:"updated"`
	Items        []ItemOutcome `json:"items"`
}

// Count returns how many items ended with outcome.
func (r Report) Count(outcome Outcome) int {
	n := 0
	for _, item := range r.Items {
		if item.Outcome == outcome {
			n++
		}
	}
	return n
}

// Duration is the wall time of the run.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) add(item ItemOutcome) {
	r.Items = append(r.Items, item)
}
