package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"roulette/internal/services"
	"roulette/internal/tmdb"
)

//go:embed sample.yaml
var sampleYAML []byte

const defaultPageSize = 20

// Entry is one movie in a YAML catalog file.
type Entry struct {
	ID            int64    `yaml:"id"`
	Title         string   `yaml:"title"`
	OriginalTitle string   `yaml:"original_title"`
	Overview      string   `yaml:"overview"`
	ReleaseDate   string   `yaml:"release_date"`
	PosterPath    string   `yaml:"poster_path"`
	VoteAverage   float64  `yaml:"vote_average"`
	Runtime       int      `yaml:"runtime"`
	Genres        []string `yaml:"genres"`
	Countries     []string `yaml:"countries"`
	Director      string   `yaml:"director"`
	Cast          []string `yaml:"cast"`
}

type document struct {
	PageSize int     `yaml:"page_size"`
	Movies   []Entry `yaml:"movies"`
}

// Catalog serves a static movie list through the same listing and detail
// operations as the TMDB client, paging entries in file order.
type Catalog struct {
	pageSize int
	entries  []Entry
	byID     map[int64]Entry
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "catalog", "parse", "decode yaml", err)
	}
	c := &Catalog{pageSize: doc.PageSize, byID: make(map[int64]Entry, len(doc.Movies))}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	for i, entry := range doc.Movies {
		if entry.ID <= 0 {
			return nil, services.Wrap(services.ErrValidation, "catalog", "parse",
				fmt.Sprintf("movie #%d has no positive id", i+1), nil)
		}
		if _, dup := c.byID[entry.ID]; dup {
			continue
		}
		c.byID[entry.ID] = entry
		c.entries = append(c.entries, entry)
	}
	return c, nil
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Sample returns the built-in offline catalog.
func Sample() *Catalog {
	c, err := Parse(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded sample catalog is invalid: %v", err))
	}
	return c
}

// Len is the number of distinct entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// PopularMovies returns the entries on page (1-based).
func (c *Catalog) PopularMovies(ctx context.Context, page int) (*tmdb.PopularPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page <= 0 {
		return nil, fmt.Errorf("page must be positive")
	}
	totalPages := (len(c.entries) + c.pageSize - 1) / c.pageSize
	out := &tmdb.PopularPage{Page: page, TotalPages: totalPages, TotalResults: len(c.entries), Results: []tmdb.ListItem{}}
	start := (page - 1) * c.pageSize
	if start >= len(c.entries) {
		return out, nil
	}
	end := min(start+c.pageSize, len(c.entries))
	for _, e := range c.entries[start:end] {
		out.Results = append(out.Results, tmdb.ListItem{
			ID:            e.ID,
			Title:         e.Title,
			OriginalTitle: e.OriginalTitle,
			Overview:      e.Overview,
			ReleaseDate:   e.ReleaseDate,
			PosterPath:    e.PosterPath,
			VoteAverage:   e.VoteAverage,
		})
	}
	return out, nil
}

// MovieDetails returns the entry with id in the TMDB detail shape.
func (c *Catalog) MovieDetails(ctx context.Context, id int64, withCredits bool) (*tmdb.MovieDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := c.byID[id]
	if !ok {
		return nil, &tmdb.StatusError{Endpoint: "catalog movie details", StatusCode: 404}
	}
	detail := &tmdb.MovieDetail{
		ID:            e.ID,
		Title:         e.Title,
		OriginalTitle: e.OriginalTitle,
		Overview:      e.Overview,
		ReleaseDate:   e.ReleaseDate,
		PosterPath:    e.PosterPath,
		VoteAverage:   e.VoteAverage,
		Runtime:       e.Runtime,
	}
	for _, g := range e.Genres {
		detail.Genres = append(detail.Genres, tmdb.Genre{Name: g})
	}
	for _, name := range e.Countries {
		detail.ProductionCountries = append(detail.ProductionCountries, tmdb.Country{Name: name})
	}
	if withCredits {
		credits := &tmdb.Credits{}
		if director := strings.TrimSpace(e.Director); director != "" {
			credits.Crew = append(credits.Crew, tmdb.CrewMember{Name: director, Job: "Director", Department: "Directing"})
		}
		for i, name := range e.Cast {
			credits.Cast = append(credits.Cast, tmdb.CastMember{Name: name, Order: i})
		}
		detail.Credits = credits
	}
	return detail, nil
}
