package session

import (
	"errors"
	"fmt"
)

var (
	// ErrLoginInFlight is returned when a login is attempted while another
	// one has not settled yet.
	ErrLoginInFlight = errors.New("login already in progress")

	// ErrTwoFactorRequired signals that credentials were accepted but the
	// login must be completed with ConfirmTwoFactor.
	ErrTwoFactorRequired = errors.New("two-factor code required")

	// ErrNoTwoFactorPending is returned by ConfirmTwoFactor when no login
	// is waiting on a code.
	ErrNoTwoFactorPending = errors.New("no two-factor login pending")
)

// LockedOutError rejects a login locally during an active lockout. It never
// corresponds to a network call.
type LockedOutError struct {
	// RetryAfterMinutes is the remaining lockout time, rounded up to whole
	// minutes; always at least 1.
	RetryAfterMinutes int
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("account locked, retry in %d minute(s)", e.RetryAfterMinutes)
}
