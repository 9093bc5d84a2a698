package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	return s
}

func TestLocalSaveAndList(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "images-1-1.png", strings.NewReader("first"), 5, "image/png"))
	require.NoError(t, s.Save(ctx, "images-1-2.jpg", strings.NewReader("second"), 6, "image/jpeg"))

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"images-1-1.png", "images-1-2.jpg"}, keys)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "images-1-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestLocalSaveRejectsUnsafeKey(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	for _, key := range []string{"../escape.png", "a/b.png", "..", ""} {
		err := s.Save(ctx, key, strings.NewReader("x"), 1, "image/png")
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalSaveNeverOverwrites(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "images-1-1.png", strings.NewReader("original"), 8, "image/png"))
	err := s.Save(ctx, "images-1-1.png", strings.NewReader("evil"), 4, "image/png")
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "images-1-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestLocalDelete(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "images-1-1.png", strings.NewReader("x"), 1, "image/png"))
	require.NoError(t, s.Delete(ctx, "images-1-1.png"))

	// Second delete observes the unlink already happened.
	assert.ErrorIs(t, s.Delete(ctx, "images-1-1.png"), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "never-existed.png"), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "../etc/passwd"), ErrInvalidKey)
}

func TestLocalListSkipsDirectories(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "nested"), 0o755))
	require.NoError(t, s.Save(ctx, "images-1-1.png", strings.NewReader("x"), 1, "image/png"))

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"images-1-1.png"}, keys)
}

func TestLocalOpen(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "images-1-1.png", strings.NewReader("payload"), 7, "image/png"))

	f, err := s.Open("images-1-1.png")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	stat, err := f.Stat()
	require.NoError(t, err)
	assert.EqualValues(t, 7, stat.Size())

	_, err = s.Open("missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Open("../secret")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalPublicURL(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/images-1-1.png", s.PublicURL("images-1-1.png"))
}
