package schemas

import (
	"time"

	"github.com/rafiql/voice-session-service/src/models"
)

// CreateSessionRequest represents the body of a request to start a call session.
type CreateSessionRequest struct {
	CallerPhone string         `json:"caller_phone" binding:"required"`
	BusinessID  string         `json:"business_id" binding:"required"`
	AIConfig    map[string]any `json:"ai_config" binding:"required"`
}

// UpdateStatusRequest represents the body of a request to change a session's status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// EndSessionRequest represents the body of a request to end a session.
type EndSessionRequest struct {
	Outcome string `json:"outcome" binding:"required"`
	Summary string `json:"summary" binding:"required"`
}

// SessionResponse is the wire representation of a session record.
type SessionResponse struct {
	ID              string         `json:"id"`
	CallerPhone     string         `json:"caller_phone"`
	BusinessID      string         `json:"business_id"`
	AIConfig        map[string]any `json:"ai_config"`
	Status          string         `json:"status"`
	StartedAt       time.Time      `json:"started_at"`
	EndedAt         *time.Time     `json:"ended_at"`
	Outcome         *string        `json:"outcome"`
	Summary         *string        `json:"summary"`
	DurationSeconds *int           `json:"duration_seconds"`
}

// NewSessionResponse maps a domain session to its wire representation.
func NewSessionResponse(s *models.Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		CallerPhone:     s.CallerPhone,
		BusinessID:      s.BusinessID,
		AIConfig:        s.AIConfig,
		Status:          string(s.Status),
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		Outcome:         s.Outcome,
		Summary:         s.Summary,
		DurationSeconds: s.DurationSeconds,
	}
}

// NewSessionListResponse maps a list of sessions, preserving order.
func NewSessionListResponse(sessions []*models.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSessionResponse(s))
	}
	return out
}
