package services

import "errors"

// Sentinel errors returned by the services. Handlers map these onto HTTP
// status codes; everything else is treated as an internal error.
var (
	// ErrAuthenticationFailed is deliberately identical for unknown
	// identifiers and wrong passwords, so callers cannot probe which
	// accounts exist.
	ErrAuthenticationFailed = errors.New("invalid email or password")

	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already in use")

	ErrUserNotFound = errors.New("user not found")

	ErrInvalidResetToken = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")

	// ErrNoRoadmap means node completion was requested before any roadmap
	// document was stored for the account.
	ErrNoRoadmap = errors.New("user has no roadmap")
)
