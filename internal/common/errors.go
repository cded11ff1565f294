// Package common defines shared constants and sentinel errors used across
// client and server layers of jobassist. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorValidation      = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConsistencyGap reports that an application record was written but the
	// owner's index could not be brought in line with it. The request may be
	// retried; a later reconciliation repairs the index.
	ErrConsistencyGap = errors.New("application index out of sync")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
