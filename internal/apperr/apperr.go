package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	// ErrTransaction marks a store-level commit/rollback failure. Callers may retry the whole operation.
	ErrTransaction = errors.New("transaction failed")
	ErrUnavailable = errors.New("service unavailable")
)
