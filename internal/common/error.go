// Package common defines sentinel errors shared by the stores, the ledger and
// the assistant workflow. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Identity errors.
	ErrInvalidCredential = errors.New("invalid credential")
	ErrNotAuthenticated  = errors.New("not authenticated")

	// Session stamp lifecycle.
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid token")

	// Input errors.
	ErrValidation = errors.New("validation error")

	ErrInternal = errors.New("internal error")
)
