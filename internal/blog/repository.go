// Package blog manages blog posts and their persistence.
package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Post represents a blog post. Unpublished posts are drafts visible only to
// admins.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	CoverImage string    `json:"coverImage"`
	Tags       []string  `json:"tags"`
	Published  bool      `json:"published"`
	AuthorID   string    `json:"authorId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a post does not exist.
var ErrNotFound = errors.New("post not found")

// ErrSlugTaken is returned when a post with the same slug already exists.
var ErrSlugTaken = errors.New("slug already taken")

const postColumns = `id, title, slug, excerpt, content, cover_image, tags, published, author_id, created_at, updated_at`

// Repository handles all post database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanPost(row pgx.Row) (*Post, error) {
	p := &Post{}
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage,
		&p.Tags, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new post and returns the created record.
func (r *Repository) Create(ctx context.Context, p *Post) (*Post, error) {
	created, err := scanPost(r.db.QueryRow(ctx,
		`INSERT INTO posts (id, title, slug, excerpt, content, cover_image, tags, published, author_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+postColumns,
		uuid.NewString(), p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Tags, p.Published, p.AuthorID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// GetByID fetches a post by its UUID, drafts included.
func (r *Repository) GetByID(ctx context.Context, id string) (*Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post by id: %w", err)
	}
	return p, nil
}

// GetPublishedBySlug fetches a published post by its slug.
func (r *Repository) GetPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1 AND published`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return p, nil
}

// List returns posts newest first. When publishedOnly is set, drafts are
// excluded.
func (r *Repository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]Post, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+postColumns+` FROM posts
		 WHERE (NOT $1::bool OR published)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		publishedOnly, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// Update rewrites the mutable fields of a post. The slug never changes after
// creation so published URLs stay stable.
func (r *Repository) Update(ctx context.Context, id string, p *Post) (*Post, error) {
	updated, err := scanPost(r.db.QueryRow(ctx,
		`UPDATE posts
		 SET title = $2, excerpt = $3, content = $4, cover_image = $5, tags = $6, published = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+postColumns,
		id, p.Title, p.Excerpt, p.Content, p.CoverImage, p.Tags, p.Published,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// Delete removes the post with the given ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
