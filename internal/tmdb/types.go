package tmdb

// ListItem is one entry of the popular movies listing.
type ListItem struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
	GenreIDs      []int64 `json:"genre_ids"`
}

// PopularPage models the paginated /movie/popular response.
type PopularPage struct {
	Page         int        `json:"page"`
	Results      []ListItem `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// Genre is a named TMDB genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Country is a production country entry.
type Country struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

// CastMember is an actor credit.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is a crew credit.
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits is appended to movie details when requested.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MovieDetail models the /movie/{id} response. Credits is nil unless requested.
type MovieDetail struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	OriginalTitle       string    `json:"original_title"`
	Overview            string    `json:"overview"`
	ReleaseDate         string    `json:"release_date"`
	PosterPath          string    `json:"poster_path"`
	VoteAverage         float64   `json:"vote_average"`
	Runtime             int       `json:"runtime"`
	Genres              []Genre   `json:"genres"`
	ProductionCountries []Country `json:"production_countries"`
	Credits             *Credits  `json:"credits,omitempty"`
}
