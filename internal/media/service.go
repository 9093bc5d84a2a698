// Package media implements the admin media library: multipart image uploads
// and management of stored assets. The storage backend is the source of truth
// for the asset collection — there is no database record of an upload.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressroom/service/internal/storage"
)

const (
	// FieldName is the multipart form field uploads must arrive under.
	FieldName = "images"
	// MaxFiles is the largest number of files accepted in one request.
	MaxFiles = 5
	// MaxFileSize is the per-file upload limit in bytes.
	MaxFileSize = 5 << 20
)

// ErrTooLarge is returned when a file exceeds MaxFileSize.
var ErrTooLarge = errors.New("file too large")

// ErrTooMany is returned when a request carries more than MaxFiles files.
var ErrTooMany = errors.New("too many files")

// ErrNotImage is returned when a file's declared content type is not image/*.
var ErrNotImage = errors.New("not an image")

// ErrInvalidFilename is returned for delete targets that fail name validation.
var ErrInvalidFilename = errors.New("invalid filename")

// ErrNotFound is returned when a delete target does not exist.
var ErrNotFound = errors.New("file not found")

// imageExts is the extension allowlist applied (case-insensitively) when
// listing the asset collection.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// Asset is a stored image as exposed to clients: the generated filename and
// its publicly fetchable URL.
type Asset struct {
	Filename string `json:"filename" example:"images-1756400000123456789-734582911.png"`
	URL      string `json:"url"      example:"http://localhost:8080/uploads/images-1756400000123456789-734582911.png"`
}

// Service contains the business logic for uploads and asset management.
type Service struct {
	store storage.Storage
}

// NewService creates a new media Service on the given storage backend.
func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

// spooled is one validated upload buffered on disk, waiting for the rest of
// its batch before anything is persisted.
type spooled struct {
	tmp          *os.File
	originalName string
	contentType  string
	size         int64
}

// Upload consumes a multipart stream, validates every file part against the
// count, size, and content-type limits, and only then persists the whole
// batch. Validation failures are all-or-nothing: a single bad file aborts the
// request before any byte reaches durable storage. Parts under fields other
// than FieldName are ignored.
func (s *Service) Upload(ctx context.Context, mr *multipart.Reader) ([]Asset, error) {
	var files []spooled
	defer func() {
		for _, f := range files {
			f.tmp.Close()
			_ = os.Remove(f.tmp.Name())
		}
	}()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart part: %w", err)
		}
		if part.FormName() != FieldName || part.FileName() == "" {
			part.Close()
			continue
		}

		if len(files) == MaxFiles {
			part.Close()
			return nil, ErrTooMany
		}

		contentType := part.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			part.Close()
			return nil, ErrNotImage
		}

		tmp, err := os.CreateTemp("", "upload-*")
		if err != nil {
			part.Close()
			return nil, fmt.Errorf("create spool file: %w", err)
		}
		// Read one byte past the limit so an exactly-at-limit file passes.
		n, err := io.Copy(tmp, io.LimitReader(part, MaxFileSize+1))
		part.Close()
		if err != nil {
			tmp.Close()
			_ = os.Remove(tmp.Name())
			return nil, fmt.Errorf("spool upload: %w", err)
		}
		files = append(files, spooled{tmp: tmp, originalName: part.FileName(), contentType: contentType, size: n})
		if n > MaxFileSize {
			return nil, ErrTooLarge
		}
	}

	assets := make([]Asset, 0, len(files))
	saved := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := f.tmp.Seek(0, io.SeekStart); err != nil {
			s.rollback(ctx, saved)
			return nil, fmt.Errorf("rewind spool file: %w", err)
		}
		key := storage.Filename(FieldName, f.originalName)
		if err := s.store.Save(ctx, key, f.tmp, f.size, f.contentType); err != nil {
			s.rollback(ctx, saved)
			return nil, fmt.Errorf("save upload %q: %w", f.originalName, err)
		}
		saved = append(saved, key)
		assets = append(assets, Asset{Filename: key, URL: s.store.PublicURL(key)})
	}
	return assets, nil
}

// rollback best-effort deletes objects persisted before a mid-batch failure.
func (s *Service) rollback(ctx context.Context, keys []string) {
	for _, key := range keys {
		_ = s.store.Delete(ctx, key)
	}
}

// List enumerates the asset collection: every stored object whose name carries
// an image extension, in unspecified order.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	keys, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	assets := make([]Asset, 0, len(keys))
	for _, key := range keys {
		if !imageExts[strings.ToLower(filepath.Ext(key))] {
			continue
		}
		assets = append(assets, Asset{Filename: key, URL: s.store.PublicURL(key)})
	}
	return assets, nil
}

// Delete removes a stored asset by filename. The name is validated before the
// storage backend is touched; ErrInvalidFilename and ErrNotFound let the
// handler distinguish bad input and missing targets from backend faults.
func (s *Service) Delete(ctx context.Context, filename string) error {
	if !storage.ValidKey(filename) {
		return ErrInvalidFilename
	}
	err := s.store.Delete(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, storage.ErrInvalidKey) {
		return ErrInvalidFilename
	}
	if err != nil {
		return fmt.Errorf("delete asset %q: %w", filename, err)
	}
	return nil
}
