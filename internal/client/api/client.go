// Package api defines the contract of the remote ChainView auth service as
// consumed by the session controller, plus the HTTP/JSON adapter that
// implements it. The controller only ever sees the Client interface, so tests
// substitute fakes freely.
package api

import (
	"context"
	"time"
)

// RawUser is the wire-shape profile as the API returns it. Tier strings
// arrive unnormalized; the session layer canonicalizes them.
type RawUser struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Username     string           `json:"username"`
	FirstName    string           `json:"firstName,omitempty"`
	LastName     string           `json:"lastName,omitempty"`
	Roles        []string         `json:"roles"`
	Permissions  []string         `json:"permissions"`
	IsActive     bool             `json:"isActive"`
	IsVerified   bool             `json:"isVerified"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Subscription *RawSubscription `json:"subscription,omitempty"`
}

// RawSubscription carries the loose tier string from the API.
type RawSubscription struct {
	Tier     string   `json:"tier"`
	Features []string `json:"features,omitempty"`
}

// LoginResult is the payload of a successful credential check. When the
// account has two-factor enabled, RequiresTwoFactor is set and AccessToken
// and User stay empty until the code is confirmed.
type LoginResult struct {
	AccessToken       string   `json:"accessToken"`
	User              *RawUser `json:"user"`
	RequiresTwoFactor bool     `json:"requiresTwoFactor"`
}

// RegisterResult is the payload of a successful registration.
type RegisterResult struct {
	AccessToken string   `json:"accessToken"`
	User        *RawUser `json:"user"`
}

// TwoFactorEnrollment is returned when two-factor auth is enabled on the
// account: the otpauth:// enrollment URI and one-time backup codes.
type TwoFactorEnrollment struct {
	QRCode      string   `json:"qrCode"`
	BackupCodes []string `json:"backupCodes"`
}

// Client is the asynchronous request/response surface of the remote auth
// service. All methods honor context cancellation. Implementations map
// transport failures onto the sentinel errors in this package.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, email, password, name string) (*RegisterResult, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*RawUser, error)
	UpdateProfile(ctx context.Context, updates map[string]any) (*RawUser, error)
	UpdateSettings(ctx context.Context, settings map[string]any) error
	ResetPassword(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	Enable2FA(ctx context.Context) (*TwoFactorEnrollment, error)
	Disable2FA(ctx context.Context, code string) error
	ConfirmTwoFactor(ctx context.Context, code string) (*LoginResult, error)

	// SetToken installs (or clears, with "") the bearer token sent on
	// authenticated calls.
	SetToken(token string)

	Close() error
}
