// Package session tracks the movies each visitor was recently shown.
//
// RecencyList is a bounded most-recent-first list; Store keys one list per
// session ID in memory and expires sessions after an idle period.
package session
