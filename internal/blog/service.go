package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Store is the persistence boundary the service talks to. *Repository is the
// production implementation; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]Post, error)
	Update(ctx context.Context, id string, p *Post) (*Post, error)
	Delete(ctx context.Context, id string) error
}

// Service contains business logic for blog posts.
type Service struct {
	store Store
}

// NewService creates a new blog Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new post under a slug derived from its title. When the slug
// is already taken a random suffix is appended once; a second collision is
// surfaced as ErrSlugTaken.
func (s *Service) Create(ctx context.Context, p *Post) (*Post, error) {
	p.Slug = Slugify(p.Title)
	created, err := s.store.Create(ctx, p)
	if errors.Is(err, ErrSlugTaken) {
		p.Slug = p.Slug + "-" + uuid.NewString()[:8]
		created, err = s.store.Create(ctx, p)
	}
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// GetPublishedBySlug returns a published post by its slug.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.store.GetPublishedBySlug(ctx, slug)
}

// ListPublished returns published posts, newest first.
func (s *Service) ListPublished(ctx context.Context, limit, offset int) ([]Post, error) {
	return s.store.List(ctx, true, limit, offset)
}

// ListAll returns every post including drafts, newest first.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Post, error) {
	return s.store.List(ctx, false, limit, offset)
}

// Update rewrites the mutable fields of an existing post.
func (s *Service) Update(ctx context.Context, id string, p *Post) (*Post, error) {
	return s.store.Update(ctx, id, p)
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// IsNotFound returns true when the error indicates a post was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
