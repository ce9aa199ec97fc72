package session

import "roulette/internal/movies"

// RecentLimit bounds every recency list.
const RecentLimit = 5

// RecencyList holds the most recently picked summaries, newest first, with no
// repeated ID. The zero value is an empty list.
type RecencyList struct {
	items []movies.Summary
}

// Push moves summary to the front, dropping any earlier entry with the same ID
// and anything past RecentLimit.
func (l *RecencyList) Push(summary movies.Summary) {
	next := make([]movies.Summary, 0, RecentLimit)
	next = append(next, summary)
	for _, item := range l.items {
		if len(next) == RecentLimit {
			break
		}
		if item.ID == summary.ID {
			continue
		}
		next = append(next, item)
	}
	l.items = next
}

// Items returns a copy of the list. It is never nil.
func (l *RecencyList) Items() []movies.Summary {
	out := make([]movies.Summary, len(l.items))
	copy(out, l.items)
	return out
}

// Len is the number of entries.
func (l *RecencyList) Len() int {
	return len(l.items)
}
