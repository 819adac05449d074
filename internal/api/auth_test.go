package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jobrelay/jobrelay-core/internal/auth"
)

// ─── Signup ────────────────────────────────────────────────────────

func TestHandleSignup(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":     "Alice@Example.com",
		"password":  "test-password",
		"firstName": "Alice",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var pair auth.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("signup should return both tokens")
	}

	user, err := srv.userRepo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("user not stored under normalized email: %v", err)
	}
	if user.Role != auth.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, auth.RoleUser)
	}
}

func TestHandleSignup_Validation(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "test-password"}},
		{"missing password", map[string]string{"email": "a@example.com"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "test-password"}},
		{"short password", map[string]string{"email": "a@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestHandleSignup_DuplicateEmail(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	signupUser(t, router, "dup@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "dup@example.com",
		"password": "test-password",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
}

// ─── Login ─────────────────────────────────────────────────────────

func TestHandleLogin(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	signupUser(t, router, "login@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "test-password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var pair auth.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("login should return both tokens")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	signupUser(t, router, "wrongpw@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "wrongpw@example.com",
		"password": "not-the-password",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestHandleLogin_UnknownEmail(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "test-password",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusNotFound, w.Body.String())
	}
}

// ─── Refresh ───────────────────────────────────────────────────────

func TestHandleRefresh_Rotation(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	pair := signupUser(t, router, "refresh@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", pair.RefreshToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var rotated auth.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &rotated); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Error("refresh should rotate the refresh token")
	}

	// Replaying the consumed token collapses to a plain 401.
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", pair.RefreshToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("replay status = %d, want %d; body: %s", w.Code, http.StatusUnauthorized, w.Body.String())
	}

	// The rotated token keeps working.
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", rotated.RefreshToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("rotated token status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestHandleRefresh_RejectsAccessToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	pair := signupUser(t, router, "crosssig@example.com")

	// An access token is signed with the other secret; the refresh guard
	// must reject it outright.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", pair.AccessToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusUnauthorized, w.Body.String())
	}
}

func TestHandleRefresh_NoToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestHandleRefresh_AfterLogout(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	pair := signupUser(t, router, "loggedout@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d; body: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", pair.RefreshToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh after logout status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// ─── Me ────────────────────────────────────────────────────────────

func TestHandleMe(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	pair := signupUser(t, router, "me@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", pair.RefreshToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var user auth.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if user.Email != "me@example.com" {
		t.Errorf("email = %q, want me@example.com", user.Email)
	}

	// The response must never leak credential material.
	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	for _, field := range []string{"password_hash", "refresh_token_hash"} {
		if _, ok := raw[field]; ok {
			t.Errorf("response leaks %s", field)
		}
	}

	// Lookup does not rotate: the same token works again.
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", pair.RefreshToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("second me status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHandleMe_SupersededSession(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	first := signupUser(t, router, "super@example.com")

	// A fresh login replaces the session; the old refresh token still
	// parses but no longer matches the stored slot.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "super@example.com",
		"password": "test-password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", first.RefreshToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusForbidden, w.Body.String())
	}
}

func TestHandleMe_NoSession(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	pair := signupUser(t, router, "gone@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", pair.RefreshToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusNotFound, w.Body.String())
	}
}

// ─── Logout ────────────────────────────────────────────────────────

func TestHandleLogout_Idempotent(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	pair := signupUser(t, router, "bye@example.com")

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", pair.AccessToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("logout %d status = %d; body: %s", i+1, w.Code, w.Body.String())
		}

		var ok bool
		if err := json.Unmarshal(w.Body.Bytes(), &ok); err != nil {
			t.Fatalf("logout body should be the JSON literal true: %v", err)
		}
		if !ok {
			t.Error("logout body = false, want true")
		}
	}
}

func TestHandleLogout_RequiresAccessToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	pair := signupUser(t, router, "noaccess@example.com")

	// Refresh tokens don't open access-guarded routes.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", pair.RefreshToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
