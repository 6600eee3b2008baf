package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/shopupload/internal/filestore"
)

func TestLocalFileStoreSaveAndOpen(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := NewLocalFileStore(tmpdir)
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("fake png data")

	// Save
	key, err := store.Save(ctx, "latte_1700.png", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "latte_1700.png", key)

	_, err = os.Stat(filepath.Join(tmpdir, "latte_1700.png"))
	require.NoError(t, err)

	// Open
	reader, contentType, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/png", contentType)

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "upload")
	_, err := NewLocalFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalFileStoreNotFound(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open(context.Background(), "nonexistent.png")
	assert.ErrorIs(t, err, filestore.ErrNotFound)
}

func TestLocalFileStorePathTraversal(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, _, err = store.Open(ctx, "../../etc/passwd")
	assert.Error(t, err)

	_, err = store.Save(ctx, "../escape.txt", bytes.NewReader([]byte("x")))
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLocalFileStoreRemovesPartialFile(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := NewLocalFileStore(tmpdir)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "broken_1.bin", failingReader{})
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(tmpdir, "broken_1.bin"))
	assert.True(t, os.IsNotExist(err))
}
