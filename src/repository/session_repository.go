package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rafiql/voice-session-service/src/db"
	"github.com/rafiql/voice-session-service/src/models"

	"github.com/lib/pq"
)

// SessionRepository handles all database operations for call sessions
type SessionRepository struct {
	db *db.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(database *db.DB) *SessionRepository {
	return &SessionRepository{
		db: database,
	}
}

var _ SessionStore = (*SessionRepository)(nil)

const sessionColumns = `id, caller_phone, business_id, ai_config, status,
	       started_at, ended_at, outcome, summary, duration_seconds`

// Insert persists a new session row
func (r *SessionRepository) Insert(ctx context.Context, session *models.Session) (*models.Session, error) {
	aiConfig, err := json.Marshal(session.AIConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ai_config: %w", err)
	}

	query := `
		INSERT INTO call_sessions
		(id, caller_phone, business_id, ai_config, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionColumns

	row := r.db.GetConnection().QueryRowContext(
		ctx,
		query,
		session.ID,
		session.CallerPhone,
		session.BusinessID,
		aiConfig,
		session.Status,
		session.StartedAt,
	)

	inserted, err := scanSession(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, models.ErrDuplicateSessionID
		}
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	slog.Info("Created new call session",
		"session_id", inserted.ID,
		"business_id", inserted.BusinessID)

	return inserted, nil
}

// FindByID retrieves a session by ID. Returns nil when no row matches.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM call_sessions
		WHERE id = $1
	`

	row := r.db.GetConnection().QueryRowContext(ctx, query, id)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		// No matching session - not an error, just means the id is unknown
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// FindFiltered retrieves sessions matching the filter, ordered by id ascending
// for deterministic keyset pagination.
func (r *SessionRepository) FindFiltered(ctx context.Context, filter SessionFilter) ([]*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM call_sessions
		WHERE 1=1`
	args := []any{}

	if filter.BusinessID != "" {
		args = append(args, filter.BusinessID)
		query += fmt.Sprintf(" AND business_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.IDGreaterThan != "" {
		args = append(args, filter.IDGreaterThan)
		query += fmt.Sprintf(" AND id > $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d", len(args))

	rows, err := r.db.GetConnection().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	return sessions, nil
}

// Update replaces the full session record, last-write-wins
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) (*models.Session, error) {
	aiConfig, err := json.Marshal(session.AIConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ai_config: %w", err)
	}

	query := `
		UPDATE call_sessions
		SET caller_phone = $2, business_id = $3, ai_config = $4, status = $5,
		    started_at = $6, ended_at = $7, outcome = $8, summary = $9,
		    duration_seconds = $10
		WHERE id = $1
		RETURNING ` + sessionColumns

	row := r.db.GetConnection().QueryRowContext(
		ctx,
		query,
		session.ID,
		session.CallerPhone,
		session.BusinessID,
		aiConfig,
		session.Status,
		session.StartedAt,
		session.EndedAt,
		session.Outcome,
		session.Summary,
		session.DurationSeconds,
	)

	updated, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	slog.Info("Updated call session",
		"session_id", updated.ID,
		"status", updated.Status)

	return updated, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (*models.Session, error) {
	var session models.Session
	var aiConfig []byte

	err := s.Scan(
		&session.ID,
		&session.CallerPhone,
		&session.BusinessID,
		&aiConfig,
		&session.Status,
		&session.StartedAt,
		&session.EndedAt,
		&session.Outcome,
		&session.Summary,
		&session.DurationSeconds,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(aiConfig, &session.AIConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ai_config: %w", err)
	}

	return &session, nil
}
