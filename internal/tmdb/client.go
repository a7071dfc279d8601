package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nextlevelbuilder/posterbot/internal/config"
)

// requestTimeout bounds every catalog call. A deadline hit is reported as
// ErrKindTimeout, distinct from other transport failures.
const requestTimeout = 10 * time.Second

// Client is a stateless wrapper over the TMDb v3 API. It performs no caching
// and no retries; callers own the retry policy.
type Client struct {
	http            *http.Client
	limiter         *rate.Limiter
	apiKey          string
	baseURL         string
	imageBaseURL    string
	backdropBaseURL string
	language        string
}

// NewClient creates a catalog client from config. Credentials and endpoints
// are injected, never hardcoded.
func NewClient(cfg config.TMDBConfig) *Client {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 4
	}
	return &Client{
		http:            &http.Client{},
		limiter:         rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		apiKey:          cfg.APIKey,
		baseURL:         cfg.BaseURL,
		imageBaseURL:    cfg.ImageBaseURL,
		backdropBaseURL: cfg.BackdropBaseURL,
		language:        cfg.Language,
	}
}

// SearchMovies runs /search/movie for a query with an optional release year.
// Adult content is always excluded.
func (c *Client) SearchMovies(ctx context.Context, query, year string) (*SearchPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year != "" {
		params.Set("year", year)
	}

	var page SearchPage
	if err := c.get(ctx, "/search/movie", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MovieDetails fetches the full record for one movie, enriched with credits,
// related videos, and similar titles in a single call.
func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos,similar")

	var details MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SimilarMovies fetches the similar-titles list for one movie.
func (c *Client) SimilarMovies(ctx context.Context, id int64) (*SearchPage, error) {
	var page SearchPage
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/similar", id), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TrendingMovies fetches this week's trending movies.
func (c *Client) TrendingMovies(ctx context.Context) (*SearchPage, error) {
	var page SearchPage
	if err := c.get(ctx, "/trending/movie/week", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PosterURL builds a full poster image URL from a catalog image path.
// Returns "" for an empty path.
func (c *Client) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

// BackdropURL builds a full backdrop image URL from a catalog image path.
func (c *Client) BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return c.backdropBaseURL + path
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &CallError{Kind: ErrKindTransport, Endpoint: endpoint, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return &CallError{Kind: ErrKindTransport, Endpoint: endpoint, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &CallError{Kind: ErrKindTimeout, Endpoint: endpoint, Err: err}
		}
		return &CallError{Kind: ErrKindTransport, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &CallError{
			Kind:     ErrKindTransport,
			Endpoint: endpoint,
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &CallError{Kind: ErrKindMalformed, Endpoint: endpoint, Err: err}
	}
	return nil
}
