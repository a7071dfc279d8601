// Package movies turns free-text queries into composed movie records by
// aggregating search, detail, and related-resource calls to the catalog.
package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/nextlevelbuilder/posterbot/internal/tmdb"
)

var (
	// ErrNotFound means the search returned zero candidates.
	ErrNotFound = errors.New("movie not found")
	// ErrNoPoster means the movie exists but has no poster image.
	// A result without a displayable image is not useful output, so this
	// is a hard failure rather than a degraded success.
	ErrNoPoster = errors.New("no poster available")
	// ErrTimedOut means a catalog call exceeded its deadline.
	ErrTimedOut = errors.New("search timed out")
)

const (
	maxCast    = 5
	maxSimilar = 3

	trailerSite = "YouTube"
	trailerType = "Trailer"
)

// Result is the immutable output of one aggregation. All slices are in
// catalog order.
type Result struct {
	ID             int64
	Title          string
	OriginalTitle  string
	Year           string
	Rating         float64
	RuntimeMinutes int
	Overview       string
	Genres         []string
	Cast           []string
	Directors      []string
	PosterURL      string
	BackdropURL    string
	TrailerURL     string
	SimilarTitles  []string
	Popularity     float64
}

// Brief is a lightweight movie entry for trending and similar-title lists.
type Brief struct {
	Title     string
	Year      string
	Rating    float64
	PosterURL string
}

// Service aggregates catalog calls into Results. It holds no per-user state.
type Service struct {
	catalog  *tmdb.Client
	trending *trendingCache
}

// NewService creates an aggregation service over a catalog client.
func NewService(catalog *tmdb.Client) *Service {
	return &Service{
		catalog:  catalog,
		trending: newTrendingCache(),
	}
}

// Find resolves a query (plus optional release year) into one Result.
// The first search candidate wins; there is no re-ranking or disambiguation
// step. No retries here, retry policy belongs to the caller.
func (s *Service) Find(ctx context.Context, query, year string) (*Result, error) {
	page, err := s.catalog.SearchMovies(ctx, query, year)
	if err != nil {
		return nil, catalogErr("search", err)
	}
	if len(page.Results) == 0 {
		return nil, ErrNotFound
	}

	details, err := s.catalog.MovieDetails(ctx, page.Results[0].ID)
	if err != nil {
		return nil, catalogErr("details", err)
	}
	if details.PosterPath == "" {
		return nil, ErrNoPoster
	}

	return s.compose(details), nil
}

// Similar returns up to limit similar titles for a movie id.
func (s *Service) Similar(ctx context.Context, id int64, limit int) ([]Brief, error) {
	page, err := s.catalog.SimilarMovies(ctx, id)
	if err != nil {
		return nil, catalogErr("similar", err)
	}
	return s.briefs(page.Results, limit), nil
}

func (s *Service) compose(d *tmdb.MovieDetails) *Result {
	r := &Result{
		ID:             d.ID,
		Title:          d.Title,
		OriginalTitle:  d.OriginalTitle,
		Year:           releaseYear(d.ReleaseDate),
		Rating:         d.VoteAverage,
		RuntimeMinutes: d.Runtime,
		Overview:       d.Overview,
		PosterURL:      s.catalog.PosterURL(d.PosterPath),
		BackdropURL:    s.catalog.BackdropURL(d.BackdropPath),
		Popularity:     d.Popularity,
	}

	for _, g := range d.Genres {
		r.Genres = append(r.Genres, g.Name)
	}
	for i, c := range d.Credits.Cast {
		if i == maxCast {
			break
		}
		r.Cast = append(r.Cast, c.Name)
	}
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			r.Directors = append(r.Directors, c.Name)
		}
	}
	for _, v := range d.Videos.Results {
		if v.Type == trailerType && v.Site == trailerSite {
			r.TrailerURL = "https://www.youtube.com/watch?v=" + v.Key
			break
		}
	}
	for i, m := range d.Similar.Results {
		if i == maxSimilar {
			break
		}
		r.SimilarTitles = append(r.SimilarTitles, m.Title)
	}

	return r
}

func (s *Service) briefs(records []tmdb.MovieRecord, limit int) []Brief {
	var out []Brief
	for _, m := range records {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, Brief{
			Title:     m.Title,
			Year:      releaseYear(m.ReleaseDate),
			Rating:    m.VoteAverage,
			PosterURL: s.catalog.PosterURL(m.PosterPath),
		})
	}
	return out
}

// releaseYear extracts the year from a catalog release date ("2010-07-15").
func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return "Unknown"
	}
	return releaseDate[:4]
}

// catalogErr maps a catalog failure onto the aggregation error taxonomy:
// timeouts are distinguishable, everything else wraps the underlying error.
func catalogErr(op string, err error) error {
	if tmdb.IsTimeout(err) {
		return fmt.Errorf("%s: %w", op, ErrTimedOut)
	}
	return fmt.Errorf("%s: %w", op, err)
}
