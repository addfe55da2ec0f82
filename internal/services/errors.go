package services

import "errors"

// Sentinel errors for the expected failure modes of the domain services.
// Handlers translate them to HTTP status codes at the boundary; anything not
// wrapping one of these (or repositories.ErrNotFound) is an internal error.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrForbidden          = errors.New("forbidden")
)
