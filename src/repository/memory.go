package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/rafiql/voice-session-service/src/models"
)

// MemorySessionStore is an in-memory SessionStore driver. It backs tests and
// local development where no PostgreSQL instance is available.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewMemorySessionStore creates an empty in-memory store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.Session),
	}
}

var _ SessionStore = (*MemorySessionStore)(nil)

// Insert implements SessionStore.
func (s *MemorySessionStore) Insert(ctx context.Context, session *models.Session) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return nil, models.ErrDuplicateSessionID
	}

	stored := cloneSession(session)
	s.sessions[session.ID] = stored
	return cloneSession(stored), nil
}

// FindByID implements SessionStore. Returns nil when the id is unknown.
func (s *MemorySessionStore) FindByID(ctx context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, nil
	}
	return cloneSession(session), nil
}

// FindFiltered implements SessionStore, ordered by id ascending.
func (s *MemorySessionStore) FindFiltered(ctx context.Context, filter SessionFilter) ([]*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*models.Session{}
	for _, session := range s.sessions {
		if filter.BusinessID != "" && session.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Status != "" && session.Status != filter.Status {
			continue
		}
		if filter.IDGreaterThan != "" && session.ID <= filter.IDGreaterThan {
			continue
		}
		matched = append(matched, cloneSession(session))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}

// Update implements SessionStore, last-write-wins.
func (s *MemorySessionStore) Update(ctx context.Context, session *models.Session) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; !exists {
		return nil, models.ErrSessionNotFound
	}

	stored := cloneSession(session)
	s.sessions[session.ID] = stored
	return cloneSession(stored), nil
}

// cloneSession copies a session so store-internal state never aliases caller state.
func cloneSession(in *models.Session) *models.Session {
	out := *in
	if in.AIConfig != nil {
		out.AIConfig = make(map[string]any, len(in.AIConfig))
		for k, v := range in.AIConfig {
			out.AIConfig[k] = v
		}
	}
	if in.EndedAt != nil {
		t := *in.EndedAt
		out.EndedAt = &t
	}
	if in.Outcome != nil {
		v := *in.Outcome
		out.Outcome = &v
	}
	if in.Summary != nil {
		v := *in.Summary
		out.Summary = &v
	}
	if in.DurationSeconds != nil {
		v := *in.DurationSeconds
		out.DurationSeconds = &v
	}
	return &out
}
