package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrRosterRequired signals that a match has no roster assignments yet,
	// so statistics capture cannot start until players are assigned.
	ErrRosterRequired = errors.New("match roster is required")
)
