// Package storage defines the interface for media object storage.
// Swap implementations by changing the concrete type injected at startup —
// the local-disk implementation keeps assets in a flat directory, the MinIO
// implementation works with any S3-compatible provider (MinIO, ArvanCloud, AWS S3).
package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
)

// ErrNotFound is returned when the named object does not exist.
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys that fail ValidKey.
var ErrInvalidKey = errors.New("invalid object key")

// Storage is the interface for persisting and enumerating media objects.
type Storage interface {
	// Save streams data to the store under the given key.
	Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key. Returns ErrNotFound when
	// no such object exists.
	Delete(ctx context.Context, key string) error
	// List enumerates all object keys currently in the store. Order is
	// unspecified.
	List(ctx context.Context) ([]string, error)
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidKey reports whether key is safe to use as a flat object name:
// letters, digits, dot, underscore and hyphen only, with no path separators
// and no traversal sequences.
func ValidKey(key string) bool {
	return validKey.MatchString(key) && !strings.Contains(key, "..")
}
