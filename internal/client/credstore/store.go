// Package credstore persists the client's credential pair (the opaque
// bearer token under "auth_token" and the serialized user record under
// "user") in durable local storage. The two keys are always written and
// removed together; a reader must never trust one without the other.
package credstore

import "context"

const (
	keyAuthToken = "auth_token"
	keyUser      = "user"
)

// Store is the credential persistence port consumed by the session
// controller. Absent values are reported as zero values, not errors.
type Store interface {
	// Token returns the persisted bearer token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// User returns the persisted serialized user record, or nil when none
	// is stored.
	User(ctx context.Context) ([]byte, error)

	// Save writes the token and user record atomically.
	Save(ctx context.Context, token string, user []byte) error

	// Clear removes both keys atomically.
	Clear(ctx context.Context) error
}
