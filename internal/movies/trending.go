package movies

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	trendingTTL   = 15 * time.Minute
	trendingLimit = 10
)

// trendingCache holds the last trending snapshot. Concurrent refreshes are
// collapsed into a single catalog call.
type trendingCache struct {
	mu      sync.RWMutex
	briefs  []Brief
	fetched time.Time
	group   singleflight.Group
}

func newTrendingCache() *trendingCache {
	return &trendingCache{}
}

// Trending returns this week's trending movies, refreshing the cached
// snapshot when it is older than trendingTTL. Only movies with a poster are
// included; at most trendingLimit entries.
func (s *Service) Trending(ctx context.Context) ([]Brief, error) {
	s.trending.mu.RLock()
	briefs, fetched := s.trending.briefs, s.trending.fetched
	s.trending.mu.RUnlock()

	if briefs != nil && time.Since(fetched) < trendingTTL {
		return briefs, nil
	}

	v, err, _ := s.trending.group.Do("trending", func() (any, error) {
		page, err := s.catalog.TrendingMovies(ctx)
		if err != nil {
			return nil, catalogErr("trending", err)
		}

		var fresh []Brief
		for _, m := range page.Results {
			if len(fresh) == trendingLimit {
				break
			}
			if m.PosterPath == "" {
				continue
			}
			fresh = append(fresh, Brief{
				Title:     m.Title,
				Year:      releaseYear(m.ReleaseDate),
				Rating:    m.VoteAverage,
				PosterURL: s.catalog.PosterURL(m.PosterPath),
			})
		}

		s.trending.mu.Lock()
		s.trending.briefs = fresh
		s.trending.fetched = time.Now()
		s.trending.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		// Serve a stale snapshot over an error if one exists.
		if briefs != nil {
			return briefs, nil
		}
		return nil, err
	}
	return v.([]Brief), nil
}
