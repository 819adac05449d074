package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jobrelay/jobrelay-core/internal/auth"
)

type userListResponse struct {
	Users []auth.User `json:"users"`
	Count int         `json:"count"`
}

// userID fetches a user's ID directly from the store.
func userID(t *testing.T, srv *Server, email string) string {
	t.Helper()

	user, err := srv.userRepo.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("fetching %s: %v", email, err)
	}
	return user.ID
}

func TestHandleListUsers_AdminOnly(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	user := signupUser(t, router, "user@example.com")
	admin := signupAdmin(t, srv, router, "admin@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/v1/users", user.AccessToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/users", admin.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d; body: %s", w.Code, w.Body.String())
	}

	var resp userListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
}

func TestHandleGetUser_SelfOrAdmin(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	alice := signupUser(t, router, "alice@example.com")
	bob := signupUser(t, router, "bob@example.com")
	admin := signupAdmin(t, srv, router, "admin@example.com")

	aliceID := userID(t, srv, "alice@example.com")

	// Self: allowed.
	w := doJSON(t, router, http.MethodGet, "/api/v1/users/"+aliceID, alice.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("self status = %d, want %d", w.Code, http.StatusOK)
	}

	// Another user: forbidden.
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+aliceID, bob.AccessToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("other status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// Admin: allowed.
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+aliceID, admin.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want %d", w.Code, http.StatusOK)
	}

	// Unknown user as admin: 404.
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/usr-missing", admin.AccessToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHandleUpdateUser(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	alice := signupUser(t, router, "alice@example.com")
	admin := signupAdmin(t, srv, router, "admin@example.com")

	aliceID := userID(t, srv, "alice@example.com")
	adminID := userID(t, srv, "admin@example.com")

	// Self profile edit.
	w := doJSON(t, router, http.MethodPatch, "/api/v1/users/"+aliceID, alice.AccessToken,
		map[string]string{"firstName": "Alicia"})
	if w.Code != http.StatusOK {
		t.Fatalf("self update status = %d; body: %s", w.Code, w.Body.String())
	}

	var updated auth.User
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if updated.FirstName != "Alicia" {
		t.Errorf("firstName = %q, want Alicia", updated.FirstName)
	}

	// A regular user cannot change roles, even their own.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/users/"+aliceID, alice.AccessToken,
		map[string]string{"role": "ADMIN"})
	if w.Code != http.StatusForbidden {
		t.Errorf("self-promotion status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// An admin can promote others.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/users/"+aliceID, admin.AccessToken,
		map[string]string{"role": "ADMIN"})
	if w.Code != http.StatusOK {
		t.Errorf("admin promotion status = %d; body: %s", w.Code, w.Body.String())
	}

	// But not demote themselves.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/users/"+adminID, admin.AccessToken,
		map[string]string{"role": "USER"})
	if w.Code != http.StatusForbidden {
		t.Errorf("self-demotion status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// Invalid role values are rejected.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/users/"+aliceID, admin.AccessToken,
		map[string]string{"role": "SUPERUSER"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid role status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleChangePassword(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	alice := signupUser(t, router, "alice@example.com")
	bob := signupUser(t, router, "bob@example.com")

	aliceID := userID(t, srv, "alice@example.com")

	// Only the account holder may change their password.
	w := doJSON(t, router, http.MethodPut, "/api/v1/users/"+aliceID+"/password", bob.AccessToken,
		map[string]string{"oldPassword": "test-password", "newPassword": "brand-new-password"})
	if w.Code != http.StatusForbidden {
		t.Errorf("other user status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// Wrong old password.
	w = doJSON(t, router, http.MethodPut, "/api/v1/users/"+aliceID+"/password", alice.AccessToken,
		map[string]string{"oldPassword": "not-it", "newPassword": "brand-new-password"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("wrong old password status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	// Success.
	w = doJSON(t, router, http.MethodPut, "/api/v1/users/"+aliceID+"/password", alice.AccessToken,
		map[string]string{"oldPassword": "test-password", "newPassword": "brand-new-password"})
	if w.Code != http.StatusOK {
		t.Fatalf("change status = %d; body: %s", w.Code, w.Body.String())
	}

	// The new password logs in; the old one is dead.
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "brand-new-password"})
	if w.Code != http.StatusOK {
		t.Errorf("login with new password status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "test-password"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("login with old password status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleDeleteUser_AdminOnly(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	alice := signupUser(t, router, "alice@example.com")
	admin := signupAdmin(t, srv, router, "admin@example.com")

	aliceID := userID(t, srv, "alice@example.com")
	adminID := userID(t, srv, "admin@example.com")

	w := doJSON(t, router, http.MethodDelete, "/api/v1/users/"+aliceID, alice.AccessToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin delete status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// Admins cannot delete themselves.
	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/"+adminID, admin.AccessToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("self delete status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/"+aliceID, admin.AccessToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("admin delete status = %d; body: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+aliceID, admin.AccessToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
