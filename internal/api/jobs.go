package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobrelay/jobrelay-core/internal/auth"
	"github.com/jobrelay/jobrelay-core/internal/job"
)

// ─── Request Types ─────────────────────────────────────────────────

type createJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Published   bool   `json:"published,omitempty"`
}

type updateJobRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

// ─── Handlers ──────────────────────────────────────────────────────

// handleListPublishedJobs returns all published postings. Public.
func (s *Server) handleListPublishedJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobRepo.ListPublished(r.Context())
	if err != nil {
		s.logger.Error("list published jobs failed", "error", err)
		writeInternalError(w, "failed to list jobs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleListAllJobs returns every posting, drafts included. Admin only.
func (s *Server) handleListAllJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list all jobs failed", "error", err)
		writeInternalError(w, "failed to list jobs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleListOwnJobs returns the authenticated user's postings, drafts included.
func (s *Server) handleListOwnJobs(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	jobs, err := s.jobRepo.ListByOwner(r.Context(), claims.Subject)
	if err != nil {
		s.logger.Error("list own jobs failed", "error", err)
		writeInternalError(w, "failed to list jobs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleGetJob returns a single posting. Public, but drafts are invisible
// here: an unpublished posting returns 404 just like a missing one.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	j, err := s.jobRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeNotFound(w, "job not found")
			return
		}
		s.logger.Error("get job failed", "error", err)
		writeInternalError(w, "failed to get job")
		return
	}

	if !j.Published {
		writeNotFound(w, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, j)
}

// handleCreateJob creates a posting owned by the authenticated user.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	j := &job.Job{
		OwnerID:     claims.Subject,
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
	}
	if err := s.jobRepo.Create(r.Context(), j); err != nil {
		s.logger.Error("create job failed", "error", err)
		writeInternalError(w, "failed to create job")
		return
	}

	s.logger.Info("job created", "job_id", j.ID, "owner_id", j.OwnerID)
	writeJSON(w, http.StatusCreated, j)
}

// handleUpdateJob modifies a posting. Owner or admin.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.ownedJob(w, r)
	if !ok {
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			writeBadRequest(w, "title cannot be empty")
			return
		}
		j.Title = *req.Title
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.Published != nil {
		j.Published = *req.Published
	}

	if err := s.jobRepo.Update(r.Context(), j); err != nil {
		s.logger.Error("update job failed", "error", err)
		writeInternalError(w, "failed to update job")
		return
	}

	writeJSON(w, http.StatusOK, j)
}

// handlePublishJob makes a posting world-readable. Owner or admin.
func (s *Server) handlePublishJob(w http.ResponseWriter, r *http.Request) {
	s.setJobPublished(w, r, true)
}

// handleUnpublishJob retires a posting back to draft. Owner or admin.
func (s *Server) handleUnpublishJob(w http.ResponseWriter, r *http.Request) {
	s.setJobPublished(w, r, false)
}

func (s *Server) setJobPublished(w http.ResponseWriter, r *http.Request, published bool) {
	j, ok := s.ownedJob(w, r)
	if !ok {
		return
	}

	if err := s.jobRepo.SetPublished(r.Context(), j.ID, published); err != nil {
		s.logger.Error("set job published failed", "error", err, "job_id", j.ID)
		writeInternalError(w, "failed to update job")
		return
	}
	j.Published = published

	s.logger.Info("job publish state changed", "job_id", j.ID, "published", published)
	writeJSON(w, http.StatusOK, j)
}

// handleDeleteJob removes a posting. Owner or admin.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.ownedJob(w, r)
	if !ok {
		return
	}

	if err := s.jobRepo.Delete(r.Context(), j.ID); err != nil {
		s.logger.Error("delete job failed", "error", err, "job_id", j.ID)
		writeInternalError(w, "failed to delete job")
		return
	}

	s.logger.Info("job deleted", "job_id", j.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ownedJob loads the posting from the URL and enforces the owner-or-admin
// rule. On failure it writes the response and returns ok=false.
func (s *Server) ownedJob(w http.ResponseWriter, r *http.Request) (*job.Job, bool) {
	id := chi.URLParam(r, "id")
	claims := claimsFromContext(r.Context())

	j, err := s.jobRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeNotFound(w, "job not found")
			return nil, false
		}
		s.logger.Error("get job failed", "error", err)
		writeInternalError(w, "failed to get job")
		return nil, false
	}

	if j.OwnerID != claims.Subject && claims.Role != auth.RoleAdmin {
		writeForbidden(w, "not the owner of this job")
		return nil, false
	}

	return j, true
}
