package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository defines the job posting store contract.
type Repository interface {
	Create(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context) ([]Job, error)
	ListPublished(ctx context.Context) ([]Job, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Job, error)
	Update(ctx context.Context, j *Job) error
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed job repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const jobColumns = "id, owner_id, title, description, published, created_at, updated_at"

// Create inserts a new job posting. The ID is generated if empty; new
// postings start unpublished unless Published is set.
func (r *SQLiteRepository) Create(ctx context.Context, j *Job) error {
	if j.ID == "" {
		j.ID = "job-" + uuid.NewString()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	j.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	j.UpdatedAt = j.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, owner_id, title, description, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.OwnerID, j.Title, nullString(j.Description), boolToInt(j.Published), now, now,
	)
	if err != nil {
		return fmt.Errorf("creating job: %w", err)
	}

	return nil
}

// GetByID retrieves a job posting by its unique ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Job, error) {
	return scanJobFrom(r.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id = ?", id))
}

// List returns all job postings, drafts included, ordered by creation date.
func (r *SQLiteRepository) List(ctx context.Context) ([]Job, error) {
	return r.listJobs(ctx, "SELECT "+jobColumns+" FROM jobs ORDER BY created_at ASC")
}

// ListPublished returns only published postings, ordered by creation date.
func (r *SQLiteRepository) ListPublished(ctx context.Context) ([]Job, error) {
	return r.listJobs(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE published = 1 ORDER BY created_at ASC")
}

// ListByOwner returns all postings owned by a user, drafts included.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]Job, error) {
	return r.listJobs(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE owner_id = ? ORDER BY created_at ASC", ownerID)
}

// Update modifies a posting's title, description, and published flag.
// Ownership never changes after creation.
func (r *SQLiteRepository) Update(ctx context.Context, j *Job) error {
	now := time.Now().UTC().Format(time.RFC3339)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET title = ?, description = ?, published = ?, updated_at = ? WHERE id = ?`,
		j.Title, nullString(j.Description), boolToInt(j.Published), now, j.ID,
	)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrJobNotFound
	}
	return nil
}

// SetPublished flips the published flag of a posting.
func (r *SQLiteRepository) SetPublished(ctx context.Context, id string, published bool) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET published = ?, updated_at = ? WHERE id = ?`,
		boolToInt(published), now, id,
	)
	if err != nil {
		return fmt.Errorf("publishing job: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Delete removes a job posting by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Count returns the total number of job postings.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) listJobs(ctx context.Context, query string, args ...any) ([]Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJobFrom(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	if jobs == nil {
		jobs = []Job{}
	}
	return jobs, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanJobFrom scans a job from any scanner (Row or Rows).
func scanJobFrom(s scanner) (*Job, error) {
	var j Job
	var description sql.NullString
	var published int
	var createdAt, updatedAt string

	err := s.Scan(&j.ID, &j.OwnerID, &j.Title, &description, &published, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	if description.Valid {
		j.Description = description.String
	}
	j.Published = published != 0

	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &j, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
