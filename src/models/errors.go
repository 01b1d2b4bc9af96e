package models

import "errors"

// Domain-level sentinel errors for business logic
// These errors should not contain HTTP-specific information

var (
	// ErrSessionNotFound indicates that a session with the given ID does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionStatus indicates that the supplied status is not a recognized enum member
	ErrInvalidSessionStatus = errors.New("invalid session status")

	// ErrDuplicateSessionID indicates an id collision on insert
	ErrDuplicateSessionID = errors.New("session id already exists")
)
