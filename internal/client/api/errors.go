package api

import "errors"

var (
	// ErrInvalidCredentials is returned when the service rejects the
	// submitted email/password or two-factor code.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when the bearer token is missing,
	// expired, or revoked.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable is returned for transport-level failures: the service
	// is unreachable, timed out, or answered 5xx.
	ErrUnavailable = errors.New("service unavailable")
)
