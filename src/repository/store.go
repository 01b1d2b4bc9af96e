package repository

import (
	"context"

	"github.com/rafiql/voice-session-service/src/models"
)

// SessionFilter narrows a FindFiltered query. All set fields apply conjunctively.
type SessionFilter struct {
	// BusinessID, when non-empty, matches sessions of that business only.
	BusinessID string

	// Status, when non-empty, matches sessions in that status only.
	Status models.SessionStatus

	// IDGreaterThan is an exclusive lower bound on id, for keyset pagination.
	IDGreaterThan string

	// Limit caps the number of returned rows. Must be positive.
	Limit int
}

// SessionStore is the durable record store consumed by the lifecycle engine.
// Implementations must enforce id uniqueness on Insert and return results from
// FindFiltered ordered by id ascending.
type SessionStore interface {
	// Insert persists a new session. Returns models.ErrDuplicateSessionID if
	// the id is already taken.
	Insert(ctx context.Context, session *models.Session) (*models.Session, error)

	// FindByID returns the session with the given id, or nil when absent.
	FindByID(ctx context.Context, id string) (*models.Session, error)

	// FindFiltered returns sessions matching the filter, ordered by id ascending.
	FindFiltered(ctx context.Context, filter SessionFilter) ([]*models.Session, error)

	// Update replaces the stored record, last-write-wins. Returns
	// models.ErrSessionNotFound if the id does not exist.
	Update(ctx context.Context, session *models.Session) (*models.Session, error)
}
