package auth

// Package auth contains domain-level types for accounts and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Label returns the role name shown in the account list.
func (r Role) Label() string {
	if r == RoleAdmin {
		return "مدیر"
	}
	return "کاربر"
}

// ParseRole maps form input onto a Role. Empty input means RoleUser.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case "":
		return RoleUser, true
	case RoleAdmin, RoleUser:
		return Role(s), true
	default:
		return "", false
	}
}

// Account is a person who can sign in.
// PasswordHash is never serialized to clients.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// Session is the server-side record we persist for an authenticated account.
// ID is an opaque session identifier.
type Session struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Lifetime is the span between issue and expiry, or zero when either is unset.
func (s Session) Lifetime() time.Duration {
	if s.IssuedAt.IsZero() || s.ExpiresAt.IsZero() {
		return 0
	}
	return s.ExpiresAt.Sub(s.IssuedAt)
}

// IsAdmin returns true if the session belongs to an admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Expired reports whether the session is past its expiry at now.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
