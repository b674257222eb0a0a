// Package common defines sentinel errors shared by the repository, service
// and transport layers of accountkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrUniqueViolation  = errors.New("unique constraint violation")
	ErrUnsupportedStore = errors.New("unsupported storage backend")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
	ErrEmailTaken = errors.New("email already in use")
	ErrStorage    = errors.New("storage error")
	ErrDelivery   = errors.New("verification delivery failed")
)
