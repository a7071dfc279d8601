// Package stats holds process-wide usage counters. Counters are initialized
// at startup and reset only by a restart.
package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats tracks searches and active users. Safe for concurrent use.
type Stats struct {
	totalSearches      atomic.Int64
	successfulSearches atomic.Int64
	startTime          time.Time

	mu          sync.Mutex
	activeUsers map[int64]struct{}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	TotalSearches      int64
	SuccessfulSearches int64
	ActiveUsers        int
	Uptime             time.Duration
}

// New creates zeroed stats with the clock started now.
func New() *Stats {
	return &Stats{
		startTime:   time.Now(),
		activeUsers: make(map[int64]struct{}),
	}
}

// Seen records that a user sent an update.
func (s *Stats) Seen(userID int64) {
	s.mu.Lock()
	s.activeUsers[userID] = struct{}{}
	s.mu.Unlock()
}

// RecordSearch counts one search attempt.
func (s *Stats) RecordSearch() {
	s.totalSearches.Add(1)
}

// RecordSuccess counts one successful search.
func (s *Stats) RecordSuccess() {
	s.successfulSearches.Add(1)
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	users := len(s.activeUsers)
	s.mu.Unlock()

	return Snapshot{
		TotalSearches:      s.totalSearches.Load(),
		SuccessfulSearches: s.successfulSearches.Load(),
		ActiveUsers:        users,
		Uptime:             time.Since(s.startTime),
	}
}
