package models

import "time"

// SessionStatus represents the lifecycle status of a call session
type SessionStatus string

const (
	StatusActive       SessionStatus = "active"
	StatusOnHold       SessionStatus = "on-hold"
	StatusTransferring SessionStatus = "transferring"
	StatusCompleted    SessionStatus = "completed"
	StatusFailed       SessionStatus = "failed"
)

// AllStatuses lists every recognized session status.
var AllStatuses = []SessionStatus{
	StatusActive,
	StatusOnHold,
	StatusTransferring,
	StatusCompleted,
	StatusFailed,
}

// ParseStatus validates a raw status string against the recognized set.
func ParseStatus(raw string) (SessionStatus, error) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", ErrInvalidSessionStatus
}

// Session represents one tracked voice-call lifecycle record.
//
// EndedAt, Outcome, Summary and DurationSeconds are all nil until the session
// is ended, and are always set together.
type Session struct {
	ID          string         `json:"id"`
	CallerPhone string         `json:"caller_phone"`
	BusinessID  string         `json:"business_id"`
	AIConfig    map[string]any `json:"ai_config"`
	Status      SessionStatus  `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     *time.Time     `json:"ended_at,omitempty"`
	Outcome     *string        `json:"outcome,omitempty"`
	Summary     *string        `json:"summary,omitempty"`

	// DurationSeconds is ended_at - started_at in whole seconds, never negative.
	DurationSeconds *int `json:"duration_seconds,omitempty"`
}
