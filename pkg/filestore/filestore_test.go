package filestore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lapgalaxy/pkg/filestore"

	"github.com/stretchr/testify/assert"
)

func TestStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := filestore.New(dir)
	assert.NoError(t, err)

	path, err := store.Save("photo.JPG", strings.NewReader("content"))
	assert.NoError(t, err)

	// The stored name is generated but keeps the original extension
	assert.Equal(t, ".JPG", filepath.Ext(path))
	assert.NotContains(t, path, "photo")

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(path)))
	assert.NoError(t, err)
	assert.Equal(t, "content", string(data))

	// Two saves of the same name never collide
	other, err := store.Save("photo.JPG", strings.NewReader("content"))
	assert.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := filestore.New(dir)
	assert.NoError(t, err)

	path, err := store.Save("banner.png", strings.NewReader("x"))
	assert.NoError(t, err)

	store.Delete(path)
	_, err = os.Stat(filepath.Join(dir, filepath.Base(path)))
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing or empty path is a no-op
	store.Delete(path)
	store.Delete("")
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store, err := filestore.New(dir)
	assert.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
