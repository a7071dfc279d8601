package tmdb

// SearchPage is the response of /search/movie and the lightweight list shape
// shared by /movie/{id}/similar and /trending/movie/week.
type SearchPage struct {
	Page         int           `json:"page"`
	Results      []MovieRecord `json:"results"`
	TotalResults int           `json:"total_results"`
}

// MovieRecord is a lightweight movie entry from a ranked list.
type MovieRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
}

// MovieDetails is the enriched record from /movie/{id} with
// append_to_response=credits,videos,similar.
type MovieDetails struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	OriginalTitle string     `json:"original_title"`
	ReleaseDate   string     `json:"release_date"`
	VoteAverage   float64    `json:"vote_average"`
	Runtime       int        `json:"runtime"`
	Overview      string     `json:"overview"`
	PosterPath    string     `json:"poster_path"`
	BackdropPath  string     `json:"backdrop_path"`
	Popularity    float64    `json:"popularity"`
	Genres        []Genre    `json:"genres"`
	Credits       Credits    `json:"credits"`
	Videos        Videos     `json:"videos"`
	Similar       SearchPage `json:"similar"`
}

// Genre is a catalog genre tag.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Credits holds cast and crew in catalog order.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is one entry of a movie's cast list.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

// CrewMember is one entry of a movie's crew list.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Videos holds related video candidates (trailers, teasers, clips).
type Videos struct {
	Results []Video `json:"results"`
}

// Video is one related video hosted on an external site.
type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}
