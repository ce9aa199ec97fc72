// Package selector draws random movies from the record store.
//
// Every pick scans the current store content, keeps the records matching a
// movies.Filter, and picks one uniformly. Genres lists the genres present in
// the store, falling back to DefaultGenres.
package selector
