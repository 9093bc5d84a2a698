package user

import (
	"context"
	"errors"
	"fmt"
)

// Store is the persistence boundary the service talks to. *Repository is the
// production implementation; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateName(ctx context.Context, id, name string) (*User, error)
	Delete(ctx context.Context, id string) error
}

// Service contains business logic for user management.
type Service struct {
	store Store
}

// NewService creates a new user Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new user account.
func (s *Service) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	u, err := s.store.Create(ctx, name, email, passwordHash, role)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByID returns a user by their UUID.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// GetByEmail returns a user by their email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.GetByEmail(ctx, email)
}

// List returns all registered users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// Rename updates the display name of an existing user.
func (s *Service) Rename(ctx context.Context, id, name string) (*User, error) {
	return s.store.UpdateName(ctx, id, name)
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// IsNotFound returns true when the error indicates a user was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
