// Package sessions keeps per-user preference and usage state.
// State is in-memory only and rebuilt from zero on restart.
package sessions

import (
	"fmt"
	"sync"
)

// Preference keys accepted by TogglePreference.
const (
	PrefBackdrop = "backdrop"
	PrefDetails  = "details"
)

// Preferences are the per-user reply options.
type Preferences struct {
	SendBackdrop bool // send the backdrop image after the poster
	DetailedInfo bool // full caption vs. compact caption
}

// Session is a snapshot of one user's state. Mutations go through the Store
// so concurrent dispatchers never share a mutable session.
type Session struct {
	UserID      int64
	Prefs       Preferences
	SearchCount int
}

// Store maps user ids to sessions. Sessions are created lazily on first
// contact and never deleted during the process lifetime.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// GetOrCreate returns a snapshot of the user's session, creating it with
// default preferences on first call. Idempotent.
func (s *Store) GetOrCreate(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ensure(userID)
}

// TogglePreference flips one preference and returns the new value.
// Mutations are serialized under the store lock.
func (s *Store) TogglePreference(userID int64, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensure(userID)
	switch key {
	case PrefBackdrop:
		sess.Prefs.SendBackdrop = !sess.Prefs.SendBackdrop
		return sess.Prefs.SendBackdrop, nil
	case PrefDetails:
		sess.Prefs.DetailedInfo = !sess.Prefs.DetailedInfo
		return sess.Prefs.DetailedInfo, nil
	}
	return false, fmt.Errorf("unknown preference %q", key)
}

// IncrementSearchCount bumps the user's search counter and returns it.
func (s *Store) IncrementSearchCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensure(userID)
	sess.SearchCount++
	return sess.SearchCount
}

// Len returns the number of known users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ensure returns the live session for a user, creating it if needed.
// Callers must hold the write lock.
func (s *Store) ensure(userID int64) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{
			UserID: userID,
			Prefs:  Preferences{SendBackdrop: true, DetailedInfo: true},
		}
		s.sessions[userID] = sess
	}
	return sess
}
