package movies

import (
	"strings"
	"time"
)

// Record is one stored movie, unique by TMDBID.
type Record struct {
	ID            int64     `json:"id"`
	TMDBID        int64     `json:"tmdb_id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title"`
	Year          int       `json:"year"`
	Rating        float64   `json:"rating"`
	VoteAverage   float64   `json:"vote_average"`
	Overview      string    `json:"overview"`
	PosterURL     string    `json:"poster_url"`
	Runtime       int       `json:"runtime"`
	Genres        []string  `json:"genres"`
	Country       string    `json:"country"`
	Director      string    `json:"director"`
	Cast          []string  `json:"cast"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Summary is the compact form kept in recency lists and stats.
type Summary struct {
	ID        int64   `json:"id"`
	TMDBID    int64   `json:"tmdb_id"`
	Title     string  `json:"title"`
	PosterURL string  `json:"poster_url"`
	Rating    float64 `json:"rating"`
	Year      int     `json:"year"`
}

// Summary returns the compact form of r.
func (r Record) Summary() Summary {
	return Summary{
		ID:        r.ID,
		TMDBID:    r.TMDBID,
		Title:     r.Title,
		PosterURL: r.PosterURL,
		Rating:    r.Rating,
		Year:      r.Year,
	}
}

// HasGenre reports whether r carries genre, compared case-insensitively.
func (r Record) HasGenre(genre string) bool {
	genre = strings.TrimSpace(genre)
	for _, g := range r.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// LowerGenres returns the record genres in lowercase, in stored order.
func (r Record) LowerGenres() []string {
	out := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		out = append(out, strings.ToLower(g))
	}
	return out
}
