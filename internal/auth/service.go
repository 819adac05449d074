package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ServiceConfig carries the secrets and lifetimes the auth service needs.
// Both secrets are required and must differ; config validation enforces
// this before the service is ever constructed.
type ServiceConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
}

// Service orchestrates the authentication flows: signup, login, logout,
// refresh rotation, and refresh-bound identity lookup.
//
// The service holds no mutable state of its own; all session state lives in
// the injected UserRepository, so concurrent requests coordinate only
// through the store's compare-and-set.
type Service struct {
	users UserRepository
	cfg   ServiceConfig
}

// NewService creates an auth service backed by the given credential store.
func NewService(users UserRepository, cfg ServiceConfig) *Service {
	return &Service{users: users, cfg: cfg}
}

// SignupParams are the fields accepted at account creation.
type SignupParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
}

// Signup creates a new account and opens a session for it.
// Returns ErrEmailExists if the email is already registered.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*User, *TokenPair, error) {
	hash, err := HashPassword(params.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Email:        NormalizeEmail(params.Email),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: hash,
		Role:         params.Role,
	}
	if user.Role == "" {
		user.Role = RoleUser
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials and opens a fresh session, replacing any
// existing one. Returns ErrUserNotFound for an unregistered email and
// ErrInvalidCredentials for a password mismatch - the HTTP layer maps these
// to the distinct statuses the API has always exposed.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// Logout clears the user's refresh session slot. It is idempotent: logging
// out an already-logged-out (or unknown) user succeeds.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// Refresh rotates the user's session: the presented refresh token is
// exchanged for a brand-new pair and the stored slot moves to the new
// token's hash in one compare-and-set.
//
// Every auth-semantic failure - unknown user, no active session, hash
// mismatch - returns the single collapsed ErrUnauthorized so a caller
// cannot probe which condition occurred. A failed rotation never touches
// the stored session. Store I/O failures are returned as-is.
func (s *Service) Refresh(ctx context.Context, userID, refreshToken string) (*TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if user.RefreshTokenHash == "" {
		return nil, ErrUnauthorized
	}

	pair, newHash, err := s.generatePair(user)
	if err != nil {
		return nil, err
	}

	err = s.users.RotateRefreshHash(ctx, user.ID, HashRefreshToken(refreshToken), newHash)
	if err != nil {
		if errors.Is(err, ErrSessionMismatch) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return pair, nil
}

// CurrentUser returns the profile of the user a refresh token belongs to,
// without rotating the session. Returns ErrUserNotFound when the user does
// not exist or holds no active session, and ErrAccessDenied when the
// presented token does not match the stored slot.
func (s *Service) CurrentUser(ctx context.Context, userID, refreshToken string) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RefreshTokenHash == "" {
		return nil, ErrUserNotFound
	}

	if !RefreshTokenMatches(refreshToken, user.RefreshTokenHash) {
		return nil, ErrAccessDenied
	}

	return user, nil
}

// ChangePassword verifies the old password and replaces the hash.
// Returns ErrInvalidCredentials if the old password does not match.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}

// issueSession generates a token pair and unconditionally installs the new
// refresh hash as the user's session slot. Used by signup and login, where
// replacing any previous session is the intended behavior.
func (s *Service) issueSession(ctx context.Context, user *User) (*TokenPair, error) {
	pair, newHash, err := s.generatePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshHash(ctx, user.ID, &newHash); err != nil {
		return nil, err
	}
	return pair, nil
}

// generatePair signs an access/refresh token pair for the user and returns
// the pair along with the refresh token's storage hash. Nothing is persisted.
func (s *Service) generatePair(user *User) (*TokenPair, string, error) {
	access, err := GenerateToken(user, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return nil, "", fmt.Errorf("generating access token: %w", err)
	}

	refresh, err := GenerateToken(user, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return nil, "", fmt.Errorf("generating refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, HashRefreshToken(refresh), nil
}
