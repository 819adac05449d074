package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobrelay/jobrelay-core/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		// Refresh-token-guarded endpoints. These present the refresh token,
		// not the access token: refresh works after the short-lived access
		// token expires, and /auth/me checks the live session slot.
		r.Group(func(r chi.Router) {
			r.Use(s.requireRefresh)

			r.Post("/auth/refresh", s.handleRefresh)
			r.Get("/auth/me", s.handleMe)
		})

		// Logout requires a valid access token; any role may log out.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth())

			r.Post("/auth/logout", s.handleLogout)
		})

		// Public job listings: published postings only.
		r.Get("/jobs", s.handleListPublishedJobs)
		r.Get("/jobs/{id}", s.handleGetJob)

		// Authenticated job management
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth())

			r.Get("/jobs/mine", s.handleListOwnJobs)
			r.Post("/jobs", s.handleCreateJob)
			r.Patch("/jobs/{id}", s.handleUpdateJob)
			r.Delete("/jobs/{id}", s.handleDeleteJob)
			r.Post("/jobs/{id}/publish", s.handlePublishJob)
			r.Post("/jobs/{id}/unpublish", s.handleUnpublishJob)
		})

		// Admin-only: full posting list, drafts included.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth(auth.RoleAdmin))

			r.Get("/jobs/all", s.handleListAllJobs)
		})

		// User endpoints: profile operations admit any authenticated user
		// (handlers enforce self-or-admin), administration is admin-only.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth())

			r.Get("/users/{id}", s.handleGetUser)
			r.Patch("/users/{id}", s.handleUpdateUser)
			r.Put("/users/{id}/password", s.handleChangePassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth(auth.RoleAdmin))

			r.Get("/users", s.handleListUsers)
			r.Delete("/users/{id}", s.handleDeleteUser)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
