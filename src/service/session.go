package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rafiql/voice-session-service/src/models"
	"github.com/rafiql/voice-session-service/src/repository"

	"github.com/google/uuid"
)

const (
	// DefaultListLimit applies when a list request names no limit.
	DefaultListLimit = 10
	// MaxListLimit caps the page size of a list request.
	MaxListLimit = 50
)

// EventCallCompleted is emitted once per End call.
const EventCallCompleted = "call.completed"

// CallCompletedPayload is the payload of a call.completed lifecycle event.
type CallCompletedPayload struct {
	SessionID   string `json:"session_id"`
	BusinessID  string `json:"business_id"`
	CallerPhone string `json:"caller_phone"`
	Outcome     string `json:"outcome"`
	Summary     string `json:"summary"`
}

// ListFilter narrows a List call. Zero-value fields are ignored; set fields
// apply conjunctively.
type ListFilter struct {
	BusinessID string
	Status     models.SessionStatus
	Cursor     string
	Limit      int
}

// SessionService owns the call session lifecycle: creation, status
// transitions, and the terminal end operation with its event emission.
type SessionService struct {
	store   repository.SessionStore
	emitter EventEmitter
}

// NewSessionService creates a new session lifecycle service
func NewSessionService(store repository.SessionStore, emitter EventEmitter) *SessionService {
	return &SessionService{
		store:   store,
		emitter: emitter,
	}
}

// Create starts tracking a new call session with status active.
func (s *SessionService) Create(ctx context.Context, callerPhone, businessID string, aiConfig map[string]any) (*models.Session, error) {
	session := &models.Session{
		ID:          uuid.New().String(),
		CallerPhone: callerPhone,
		BusinessID:  businessID,
		AIConfig:    aiConfig,
		Status:      models.StatusActive,
		StartedAt:   time.Now().UTC(),
	}

	created, err := s.store.Insert(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("Session created",
		"session_id", created.ID,
		"business_id", created.BusinessID,
		"caller_phone", created.CallerPhone)

	return created, nil
}

// Get fetches a session by id. Returns models.ErrSessionNotFound when absent.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}

// List returns sessions matching the filter, ordered by id ascending. Cursor
// is an exclusive lower bound on id, so a caller paging with the last seen id
// never sees that row again.
func (s *SessionService) List(ctx context.Context, filter ListFilter) ([]*models.Session, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	sessions, err := s.store.FindFiltered(ctx, repository.SessionFilter{
		BusinessID:    filter.BusinessID,
		Status:        filter.Status,
		IDGreaterThan: filter.Cursor,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// UpdateStatus moves a session to the given status. The status must be a
// recognized enum member, but transitions are otherwise unrestricted: any
// status may move to any other, including out of completed or failed.
func (s *SessionService) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) (*models.Session, error) {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return nil, err
	}

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Status = status

	updated, err := s.store.Update(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}

	slog.Info("Session status updated",
		"session_id", updated.ID,
		"status", updated.Status)

	return updated, nil
}

// End terminates a session: status becomes completed, ended_at is stamped,
// duration is computed, and outcome/summary are recorded together. Ending an
// already-ended session re-runs the same mutation. Exactly one call.completed
// event is emitted per call; emission never fails the request.
func (s *SessionService) End(ctx context.Context, id, outcome, summary string) (*models.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	endedAt := time.Now().UTC()
	duration := int(endedAt.Sub(session.StartedAt).Seconds())
	if duration < 0 {
		// Clock skew guard
		duration = 0
	}

	session.Status = models.StatusCompleted
	session.EndedAt = &endedAt
	session.Outcome = &outcome
	session.Summary = &summary
	session.DurationSeconds = &duration

	updated, err := s.store.Update(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to end session: %w", err)
	}

	slog.Info("Session ended",
		"session_id", updated.ID,
		"outcome", outcome,
		"duration_seconds", duration)

	s.emitter.Emit(EventCallCompleted, CallCompletedPayload{
		SessionID:   updated.ID,
		BusinessID:  updated.BusinessID,
		CallerPhone: updated.CallerPhone,
		Outcome:     outcome,
		Summary:     summary,
	})

	return updated, nil
}
