package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage on a single flat directory on disk. The
// directory is the source of truth: no index or metadata sidecars are kept,
// and enumeration is a plain directory scan. Concurrent writers are safe
// because keys come from Filename and will not collide; a delete racing a
// write resolves through the filesystem's atomic unlink.
type LocalStorage struct {
	dir        string
	publicBase string
}

// NewLocalStorage ensures dir exists and returns a LocalStorage rooted there.
// publicBase is the externally visible origin assets are served under;
// PublicURL joins it with "/uploads/<key>".
func NewLocalStorage(dir, publicBase string) (*LocalStorage, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &LocalStorage{
		dir:        dir,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Dir returns the storage directory path.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save writes reader to dir/key. The key must already be a safe flat name;
// an existing object under the same key is never overwritten.
func (s *LocalStorage) Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	f, err := os.OpenFile(filepath.Join(s.dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create object %q: %w", key, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("close object %q: %w", key, err)
	}
	return nil
}

// Delete unlinks dir/key. Returns ErrNotFound when the object is absent.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// List returns the names of all regular files in the storage directory.
func (s *LocalStorage) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan upload dir: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}

// PublicURL returns the browser-accessible URL for the given key.
func (s *LocalStorage) PublicURL(key string) string {
	return s.publicBase + "/uploads/" + key
}

// Open opens the stored object for reading. Returns ErrNotFound when the
// object is absent and ErrInvalidKey for unsafe names.
func (s *LocalStorage) Open(key string) (*os.File, error) {
	if !ValidKey(key) {
		return nil, ErrInvalidKey
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open object %q: %w", key, err)
	}
	return f, nil
}
