package core

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}

// makeUpload builds a multipart file header the way gin hands it to the
// handler.
func makeUpload(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("imagen", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["imagen"][0]
}

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := NewImageStore(t.TempDir(), 3)
	require.NoError(t, err)
	return store
}

func TestImageStoreSave(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(makeUpload(t, "foto.png", pngBytes), 7)
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(store.Dir(), "7.png"))
	assert.NoError(t, err, "image stored as <id>.<ext>")
	assert.Equal(t, "/uploads/products/7.png", store.URL(7))
}

func TestImageStoreSniffsContentType(t *testing.T) {
	store := newTestStore(t)

	// extension in the filename is ignored; the bytes decide
	err := store.Save(makeUpload(t, "foto.png", jpegBytes), 7)
	assert.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(store.Dir(), "7.jpg"))
	assert.NoError(t, statErr)
}

func TestImageStoreRejectsUnknownType(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(makeUpload(t, "nota.txt", []byte("esto no es una imagen")), 7)
	assert.Error(t, err)
	assert.Equal(t, "", store.URL(7))
}

func TestImageStoreLastWriteWins(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(makeUpload(t, "a.png", pngBytes), 7))
	require.NoError(t, store.Save(makeUpload(t, "b.jpg", jpegBytes), 7))

	_, err := os.Stat(filepath.Join(store.Dir(), "7.png"))
	assert.True(t, os.IsNotExist(err), "stale sibling extension removed")
	assert.Equal(t, "/uploads/products/7.jpg", store.URL(7))
}

func TestImageStoreRemove(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(makeUpload(t, "a.png", pngBytes), 7))
	store.Remove(7)

	assert.Equal(t, "", store.URL(7))
}

func TestImageStoreSizeCap(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), 0)
	require.NoError(t, err)

	err = store.Save(makeUpload(t, "a.png", pngBytes), 7)
	assert.Error(t, err, "zero MB cap rejects any upload")
}
