package auth

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// minPasswordLength is the minimum accepted password length at signup and
// password change.
const minPasswordLength = 8

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleUser is a regular account: can browse jobs and manage its own
	// postings and profile.
	RoleUser Role = "USER"

	// RoleAdmin has full control: all job postings plus user administration.
	RoleAdmin Role = "ADMIN"
)

// ValidRoles is the set of roles an account may hold.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// IsValidRole returns true if the role is a valid account role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email address. Emails are
// case-normalized once at the boundary so lookups and the UNIQUE index
// agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks that an address parses as a bare RFC 5322 address.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsValidPassword checks the minimum password length requirement.
func IsValidPassword(password string) bool {
	return len(password) >= minPasswordLength
}

// User represents an account identity.
//
// PasswordHash and RefreshTokenHash are never serialised. RefreshTokenHash
// is the single session slot: empty means logged out, otherwise it holds the
// SHA-256 of the most recently issued, still-valid refresh token.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name,omitempty"`
	LastName         string    `json:"last_name,omitempty"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TokenPair is the access/refresh token pair returned by every session-issuing
// flow. Both are opaque signed strings to the caller.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccessDenied       = errors.New("access denied")

	// ErrSessionMismatch is returned by the store when a compare-and-set
	// rotation finds the stored slot no longer matches the presented hash.
	ErrSessionMismatch = errors.New("refresh session mismatch")

	// ErrUnauthorized is the collapsed refresh-flow failure: expired token,
	// mismatched hash, and absent session all surface as this one error so
	// callers get no signal about which occurred.
	ErrUnauthorized = errors.New("unauthorized")
)
