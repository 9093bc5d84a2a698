// Package job manages job postings and their persistence.
package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Job represents a published or retired job posting.
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employmentType"`
	Description    string    `json:"description"`
	ApplyURL       string    `json:"applyUrl"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a job posting does not exist.
var ErrNotFound = errors.New("job not found")

const jobColumns = `id, title, location, employment_type, description, apply_url, active, created_at, updated_at`

// Repository handles all job database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanJob(row pgx.Row) (*Job, error) {
	j := &Job{}
	err := row.Scan(&j.ID, &j.Title, &j.Location, &j.EmploymentType, &j.Description,
		&j.ApplyURL, &j.Active, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Create inserts a new job posting and returns the created record.
func (r *Repository) Create(ctx context.Context, j *Job) (*Job, error) {
	created, err := scanJob(r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, title, location, employment_type, description, apply_url, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+jobColumns,
		uuid.NewString(), j.Title, j.Location, j.EmploymentType, j.Description, j.ApplyURL, j.Active,
	))
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return created, nil
}

// GetByID fetches a job posting by its UUID, active or not.
func (r *Repository) GetByID(ctx context.Context, id string) (*Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job by id: %w", err)
	}
	return j, nil
}

// List returns job postings newest first. When activeOnly is set, retired
// postings are excluded.
func (r *Repository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE (NOT $1::bool OR active)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		activeOnly, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// Update rewrites the mutable fields of a job posting.
func (r *Repository) Update(ctx context.Context, id string, j *Job) (*Job, error) {
	updated, err := scanJob(r.db.QueryRow(ctx,
		`UPDATE jobs
		 SET title = $2, location = $3, employment_type = $4, description = $5, apply_url = $6, active = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+jobColumns,
		id, j.Title, j.Location, j.EmploymentType, j.Description, j.ApplyURL, j.Active,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

// Delete removes the job posting with the given ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
