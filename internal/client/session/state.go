// Package session implements the client-side session/authentication
// controller for the ChainView dashboards: a single authoritative state
// object mutated only through a closed set of transitions, the public facade
// the rest of the application calls, and the timers that translate elapsed
// wall-clock time into transitions.
package session

import (
	"fmt"
	"time"

	"github.com/chainviewhq/chainview/internal/client/models"
)

// State is the authoritative session state. It is owned by the Controller
// and mutated exclusively through reduce; consumers get copies.
type State struct {
	// User is present iff the session is authenticated.
	User *models.User

	// IsAuthenticated is derived: true iff User is non-nil.
	IsAuthenticated bool

	// IsLoading is true while an authentication operation is in flight or
	// during bootstrap.
	IsLoading bool

	// Err holds the last operation error message; cleared on the next
	// successful state change.
	Err string

	// SessionExpiry, when set, is the deadline after which the session is
	// terminated. Never honored while unauthenticated.
	SessionExpiry *time.Time

	// LastActivity is the time of the last observed user interaction.
	LastActivity time.Time

	// RequiresTwoFactor gates completion of a login against an account
	// with two-factor auth enabled.
	RequiresTwoFactor bool

	// LoginAttempts counts consecutive failed login attempts since the
	// last success or lockout reset.
	LoginAttempts int

	// IsLocked blocks login attempts until LockoutExpiry.
	IsLocked bool

	// LockoutExpiry is set while IsLocked; attempts before it are rejected
	// locally, without contacting the service.
	LockoutExpiry *time.Time
}

// Event is a tagged transition applied to the session state. The set is
// closed: the unexported marker keeps external packages from adding
// variants, so reduce stays a total function over known inputs.
type Event interface {
	isEvent()
}

// SetLoading toggles the in-flight flag.
type SetLoading struct{ Loading bool }

// SetUser replaces the user wholesale; nil logs the session out of the
// state (derived IsAuthenticated follows). A non-nil user clears Err.
type SetUser struct{ User *models.User }

// SetError records a failed operation and clears the loading flag.
type SetError struct{ Message string }

// SetSessionExpiry installs or clears the session deadline.
type SetSessionExpiry struct{ Expiry *time.Time }

// ActivityTick refreshes LastActivity. It never touches SessionExpiry.
type ActivityTick struct{ At time.Time }

// SetTwoFactorRequired toggles the two-factor gate.
type SetTwoFactorRequired struct{ Required bool }

// LoginAttemptFailed records one failed attempt at time At; crossing the
// lockout threshold engages the lock.
type LoginAttemptFailed struct{ At time.Time }

// LoginAttemptSucceeded resets the attempt counter and releases any lock.
type LoginAttemptSucceeded struct{}

// SetLocked is the explicit override used by the lockout timer to release
// the lock once LockoutExpiry has elapsed.
type SetLocked struct {
	Locked bool
	Expiry *time.Time
}

// PatchUser shallow-merges the non-nil fields into the current user. Only
// valid while a user is present; otherwise it reduces to an error state.
type PatchUser struct{ Patch UserPatch }

// UserPatch carries the fields PatchUser may merge. Nil pointers and nil
// slices leave the corresponding field untouched.
type UserPatch struct {
	Email        *string
	Username     *string
	FirstName    *string
	LastName     *string
	IsVerified   *bool
	Roles        []string
	Perms        []string
	Subscription *models.Subscription
}

func (SetLoading) isEvent()            {}
func (SetUser) isEvent()               {}
func (SetError) isEvent()              {}
func (SetSessionExpiry) isEvent()      {}
func (ActivityTick) isEvent()          {}
func (SetTwoFactorRequired) isEvent()  {}
func (LoginAttemptFailed) isEvent()    {}
func (LoginAttemptSucceeded) isEvent() {}
func (SetLocked) isEvent()             {}
func (PatchUser) isEvent()             {}

// Policy holds the lockout parameters the reducer applies. Production code
// uses the defaults; tests shrink the durations.
type Policy struct {
	LockoutThreshold int
	LockoutDuration  time.Duration
}

// DefaultPolicy locks an account for 15 minutes after 5 consecutive
// failures.
func DefaultPolicy() Policy {
	return Policy{LockoutThreshold: 5, LockoutDuration: 15 * time.Minute}
}

// reduce applies one event to the state and returns the successor. It is
// pure and total: every event is defined for every input state and nothing
// here may panic. Unexpected input degrades to an error-carrying state.
func (p Policy) reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case SetLoading:
		s.IsLoading = e.Loading

	case SetUser:
		s.User = e.User
		s.IsAuthenticated = e.User != nil
		s.Err = ""

	case SetError:
		s.Err = e.Message
		s.IsLoading = false

	case SetSessionExpiry:
		s.SessionExpiry = e.Expiry

	case ActivityTick:
		s.LastActivity = e.At

	case SetTwoFactorRequired:
		s.RequiresTwoFactor = e.Required

	case LoginAttemptFailed:
		s.LoginAttempts++
		if s.LoginAttempts >= p.LockoutThreshold {
			expiry := e.At.Add(p.LockoutDuration)
			s.IsLocked = true
			s.LockoutExpiry = &expiry
		}

	case LoginAttemptSucceeded:
		s.LoginAttempts = 0
		s.IsLocked = false
		s.LockoutExpiry = nil

	case SetLocked:
		s.IsLocked = e.Locked
		s.LockoutExpiry = e.Expiry

	case PatchUser:
		if s.User == nil {
			s.Err = "cannot patch user: not authenticated"
			break
		}
		u := s.User.Clone()
		applyPatch(u, e.Patch)
		s.User = u

	default:
		s.Err = fmt.Sprintf("unknown session event %T", ev)
	}

	return s
}

func applyPatch(u *models.User, p UserPatch) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	if p.Roles != nil {
		u.Roles = append([]string(nil), p.Roles...)
	}
	if p.Perms != nil {
		u.Perms = append([]string(nil), p.Perms...)
	}
	if p.Subscription != nil {
		sub := *p.Subscription
		u.Subscription = &sub
	}
}
