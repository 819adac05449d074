package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobrelay/jobrelay-core/internal/auth"
)

// ─── Request Types ─────────────────────────────────────────────────

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ─── Handlers ──────────────────────────────────────────────────────

// handleSignup registers a new account and returns a fresh token pair.
// New accounts always start as regular users; promotion to admin is a
// separate administrative action.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}
	if !auth.IsValidEmail(auth.NormalizeEmail(req.Email)) {
		writeBadRequest(w, "invalid email address")
		return
	}
	if !auth.IsValidPassword(req.Password) {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	user, pair, err := s.authSvc.Signup(r.Context(), auth.SignupParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      auth.RoleUser,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeConflict(w, "email already registered")
			return
		}
		s.logger.Error("signup failed", "error", err)
		writeInternalError(w, "failed to create account")
		return
	}

	s.logger.Info("user signed up", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, pair)
}

// handleLogin verifies credentials and returns a fresh token pair,
// replacing any existing session for the account.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	pair, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeNotFound(w, "no account for this email")
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeBadRequest(w, "invalid credentials")
		default:
			s.logger.Error("login failed", "error", err)
			writeInternalError(w, "failed to log in")
		}
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// handleRefresh exchanges a valid refresh token for a new token pair,
// rotating the stored session.
//
// All auth-semantic failures return the same 401 so a caller cannot tell an
// unknown user from a revoked session from a replayed token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	rawToken := refreshTokenFromContext(r.Context())

	pair, err := s.authSvc.Refresh(r.Context(), claims.Subject, rawToken)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			writeUnauthorized(w, "unauthorized")
			return
		}
		s.logger.Error("refresh failed", "error", err)
		writeInternalError(w, "failed to refresh session")
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// handleMe returns the profile of the session's user. The presented refresh
// token must match the stored session slot; the session is not rotated.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	rawToken := refreshTokenFromContext(r.Context())

	user, err := s.authSvc.CurrentUser(r.Context(), claims.Subject, rawToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeNotFound(w, "user not found")
		case errors.Is(err, auth.ErrAccessDenied):
			writeForbidden(w, "access denied")
		default:
			s.logger.Error("identity lookup failed", "error", err)
			writeInternalError(w, "failed to look up user")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleLogout clears the session slot for the authenticated user.
// Idempotent: logging out twice succeeds both times, and the response body
// is the bare JSON literal true either way.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	if err := s.authSvc.Logout(r.Context(), claims.Subject); err != nil {
		s.logger.Error("logout failed", "error", err, "user_id", claims.Subject)
		writeInternalError(w, "failed to log out")
		return
	}

	s.logger.Info("user logged out", "user_id", claims.Subject)
	writeJSON(w, http.StatusOK, true)
}
