package job

import (
	"errors"
	"time"
)

// Job represents a single job posting.
type Job struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sentinel errors for job operations.
var (
	ErrJobNotFound = errors.New("job not found")
)
