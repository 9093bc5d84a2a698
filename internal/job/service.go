package job

import (
	"context"
	"errors"
)

// Store is the persistence boundary the service talks to. *Repository is the
// production implementation; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, j *Job) (*Job, error)
	GetByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]Job, error)
	Update(ctx context.Context, id string, j *Job) (*Job, error)
	Delete(ctx context.Context, id string) error
}

// Service contains business logic for job postings.
type Service struct {
	store Store
}

// NewService creates a new job Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new job posting.
func (s *Service) Create(ctx context.Context, j *Job) (*Job, error) {
	return s.store.Create(ctx, j)
}

// GetByID returns a job posting by its UUID.
func (s *Service) GetByID(ctx context.Context, id string) (*Job, error) {
	return s.store.GetByID(ctx, id)
}

// ListActive returns active postings, newest first.
func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]Job, error) {
	return s.store.List(ctx, true, limit, offset)
}

// Update rewrites the mutable fields of an existing posting.
func (s *Service) Update(ctx context.Context, id string, j *Job) (*Job, error) {
	return s.store.Update(ctx, id, j)
}

// Delete removes a posting.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// IsNotFound returns true when the error indicates a job was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
