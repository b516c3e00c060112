// Package models defines client-side data models shared by the session
// controller and the ChainView API adapter.
package models

import (
	"strings"
	"time"
)

// Tier is a canonical subscription level. Raw API payloads carry loosely
// specified tier strings; NormalizeTier maps them onto this enumeration.
type Tier string

const (
	TierPro        Tier = "PRO"
	TierElite      Tier = "ELITE"
	TierEnterprise Tier = "ENTERPRISE"
)

// NormalizeTier canonicalizes a raw subscription tier string.
// "enterprise" and "admin" (any case) map to ENTERPRISE, "elite" to ELITE,
// and everything else, including the empty string, falls back to PRO.
func NormalizeTier(raw string) Tier {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "enterprise", "admin":
		return TierEnterprise
	case "elite":
		return TierElite
	default:
		return TierPro
	}
}

// Subscription describes the plan attached to a user account.
type Subscription struct {
	Tier     Tier     `json:"tier"`
	Features []string `json:"features,omitempty"`
}

// User is the authenticated account record owned by the session state.
// The validate tags back the persisted-state schema check performed at
// bootstrap: a record failing them is treated as corrupt and discarded.
type User struct {
	ID         string    `json:"id" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Username   string    `json:"username" validate:"required"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	Roles      []string  `json:"roles"`
	Perms      []string  `json:"permissions"`
	IsActive   bool      `json:"isActive"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Subscription *Subscription `json:"subscription,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user carries the given permission.
func (u *User) HasPermission(perm string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Perms {
		if p == perm {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so state snapshots never alias the slices of
// the authoritative record.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	c.Perms = append([]string(nil), u.Perms...)
	if u.Subscription != nil {
		sub := *u.Subscription
		sub.Features = append([]string(nil), u.Subscription.Features...)
		c.Subscription = &sub
	}
	return &c
}
