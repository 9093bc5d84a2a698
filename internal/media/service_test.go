package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressroom/service/internal/storage"
)

// filePart describes one file to place into a test multipart body.
type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// buildMultipart assembles a multipart body and returns a reader over it.
func buildMultipart(t *testing.T, parts []filePart) *multipart.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return multipart.NewReader(&buf, w.Boundary())
}

func imagePart(filename string, data []byte) filePart {
	return filePart{field: FieldName, filename: filename, contentType: "image/png", data: data}
}

func newTestService(t *testing.T) (*Service, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	return NewService(store), store
}

func storedCount(t *testing.T, store *storage.LocalStorage) int {
	t.Helper()
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	return len(keys)
}

func TestUploadSuccess(t *testing.T) {
	svc, store := newTestService(t)

	assets, err := svc.Upload(context.Background(), buildMultipart(t, []filePart{
		imagePart("photo.PNG", []byte("png bytes")),
		imagePart("diagram.svg", []byte("<svg/>")),
	}))
	require.NoError(t, err)
	require.Len(t, assets, 2)

	for _, a := range assets {
		assert.True(t, storage.ValidKey(a.Filename), "generated name %q must be a safe key", a.Filename)
		assert.Equal(t, "http://localhost:8080/uploads/"+a.Filename, a.URL)
	}
	assert.True(t, strings.HasSuffix(assets[0].Filename, ".png"), "extension survives lower-cased: %q", assets[0].Filename)
	assert.Equal(t, 2, storedCount(t, store))
}

func TestUploadEmptyBatch(t *testing.T) {
	svc, store := newTestService(t)

	assets, err := svc.Upload(context.Background(), buildMultipart(t, nil))
	require.NoError(t, err)
	assert.Empty(t, assets)
	assert.Zero(t, storedCount(t, store))
}

func TestUploadIgnoresOtherFields(t *testing.T) {
	svc, store := newTestService(t)

	assets, err := svc.Upload(context.Background(), buildMultipart(t, []filePart{
		{field: "attachment", filename: "notes.txt", contentType: "text/plain", data: []byte("ignored")},
		imagePart("photo.png", []byte("kept")),
	}))
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, 1, storedCount(t, store))
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, store := newTestService(t)

	parts := []filePart{
		imagePart("ok.png", []byte("small")),
		imagePart("huge.png", make([]byte, MaxFileSize+1)),
	}
	_, err := svc.Upload(context.Background(), buildMultipart(t, parts))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, storedCount(t, store), "no sibling file may be persisted")
}

func TestUploadAcceptsFileAtLimit(t *testing.T) {
	svc, store := newTestService(t)

	assets, err := svc.Upload(context.Background(), buildMultipart(t, []filePart{
		imagePart("exact.png", make([]byte, MaxFileSize)),
	}))
	require.NoError(t, err)
	assert.Len(t, assets, 1)
	assert.Equal(t, 1, storedCount(t, store))
}

func TestUploadRejectsTooManyFiles(t *testing.T) {
	svc, store := newTestService(t)

	parts := make([]filePart, MaxFiles+1)
	for i := range parts {
		parts[i] = imagePart("photo.png", []byte("x"))
	}
	_, err := svc.Upload(context.Background(), buildMultipart(t, parts))
	assert.ErrorIs(t, err, ErrTooMany)
	assert.Zero(t, storedCount(t, store))
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc, store := newTestService(t)

	parts := []filePart{
		imagePart("ok.png", []byte("fine")),
		{field: FieldName, filename: "evil.png", contentType: "text/plain", data: []byte("nope")},
	}
	_, err := svc.Upload(context.Background(), buildMultipart(t, parts))
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Zero(t, storedCount(t, store))
}

func TestUploadConcurrentSameName(t *testing.T) {
	svc, store := newTestService(t)

	const workers = 4
	results := make([][]Asset, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var buf bytes.Buffer
			w := multipart.NewWriter(&buf)
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", `form-data; name="images"; filename="shared.png"`)
			h.Set("Content-Type", "image/png")
			pw, _ := w.CreatePart(h)
			_, _ = pw.Write([]byte("same original name"))
			_ = w.Close()
			assets, err := svc.Upload(context.Background(), multipart.NewReader(&buf, w.Boundary()))
			if err == nil {
				results[i] = assets
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, assets := range results {
		require.Len(t, assets, 1)
		assert.False(t, seen[assets[0].Filename], "duplicate generated name %q", assets[0].Filename)
		seen[assets[0].Filename] = true
	}
	assert.Equal(t, workers, storedCount(t, store))
}

func TestListFiltersAndMaps(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	assets, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, assets, "fresh directory lists empty")

	require.NoError(t, store.Save(ctx, "a.png", strings.NewReader("1"), 1, "image/png"))
	require.NoError(t, store.Save(ctx, "b.JPG", strings.NewReader("2"), 1, "image/jpeg"))
	require.NoError(t, store.Save(ctx, "stray.txt", strings.NewReader("3"), 1, "text/plain"))

	assets, err = svc.List(ctx)
	require.NoError(t, err)

	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Filename
		assert.Equal(t, "http://localhost:8080/uploads/"+a.Filename, a.URL)
	}
	assert.ElementsMatch(t, []string{"a.png", "b.JPG"}, names, "allowlist is case-insensitive and excludes non-images")
}

func TestListMatchesUploads(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	uploaded, err := svc.Upload(ctx, buildMultipart(t, []filePart{
		imagePart("one.png", []byte("1")),
		imagePart("two.gif", []byte("2")),
		imagePart("three.webp", []byte("3")),
	}))
	require.NoError(t, err)

	listed, err := svc.List(ctx)
	require.NoError(t, err)

	var want, got []string
	for _, a := range uploaded {
		want = append(want, a.Filename)
	}
	for _, a := range listed {
		got = append(got, a.Filename)
	}
	assert.ElementsMatch(t, want, got)
}

func TestDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "keep.png", strings.NewReader("x"), 1, "image/png"))

	t.Run("traversal name rejected before filesystem access", func(t *testing.T) {
		err := svc.Delete(ctx, "../etc/passwd")
		assert.ErrorIs(t, err, ErrInvalidFilename)
	})

	t.Run("missing file", func(t *testing.T) {
		err := svc.Delete(ctx, "never-uploaded.png")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("existing file", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "keep.png"))
		assert.Zero(t, storedCount(t, store))

		err := svc.Delete(ctx, "keep.png")
		assert.ErrorIs(t, err, ErrNotFound, "second delete observes not-found")
	})
}
