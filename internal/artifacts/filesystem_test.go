package artifacts_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fm-configurator/internal/artifacts"
)

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, "png", artifacts.ExtensionFor("image/png"))
	assert.Equal(t, "jpg", artifacts.ExtensionFor("image/jpeg"))
	assert.Equal(t, "jpg", artifacts.ExtensionFor("image/jpg"))
	assert.Equal(t, "png", artifacts.ExtensionFor("image/webp"))
	assert.Equal(t, "png", artifacts.ExtensionFor(""))
}

func TestFileStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "uploads")
	store, err := artifacts.NewFileStore(dir, "https://cdn.example.com/uploads/")
	require.NoError(t, err)

	art, err := store.Save(context.Background(), []byte("jpeg-data"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, dir, store.Dir())
	assert.Equal(t, art.ID.String()+".jpg", art.Filename)
	assert.Equal(t, "https://cdn.example.com/uploads/"+art.Filename, art.PublicURL)
	assert.Equal(t, int64(9), art.Size)

	data, err := os.ReadFile(filepath.Join(dir, art.Filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-data"), data)
}

func TestFileStore_ConcurrentSavesNeverCollide(t *testing.T) {
	store, err := artifacts.NewFileStore(filepath.Join(t.TempDir(), "uploads"), "/uploads")
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	names := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			art, err := store.Save(context.Background(), []byte("x"), "image/png")
			if assert.NoError(t, err) {
				names <- art.Filename
			}
		}()
	}
	wg.Wait()
	close(names)

	seen := map[string]bool{}
	for name := range names {
		assert.False(t, seen[name])
		seen[name] = true
	}
	assert.Len(t, seen, n)
}

func TestFileStore_SaveFailsWhenDirectoryIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	store, err := artifacts.NewFileStore(blocker, "/uploads")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), []byte("x"), "image/png")
	assert.Error(t, err)
}

func TestFileStore_Path(t *testing.T) {
	store, err := artifacts.NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Path("../etc/passwd")
	assert.ErrorIs(t, err, artifacts.ErrInvalidName)
	_, err = store.Path("not-a-uuid.png")
	assert.ErrorIs(t, err, artifacts.ErrInvalidName)

	p, err := store.Path("0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, "0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.png"))
}

func TestFileStore_Prune(t *testing.T) {
	dir := t.TempDir()
	store, err := artifacts.NewFileStore(dir, "/uploads")
	require.NoError(t, err)

	old, err := store.Save(context.Background(), []byte("old"), "image/png")
	require.NoError(t, err)
	fresh, err := store.Save(context.Background(), []byte("fresh"), "image/png")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	now := time.Now()
	past := now.Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, old.Filename), past, past))

	removed, err := store.Prune(context.Background(), 24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(dir, old.Filename))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, fresh.Filename))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, err)
}

func TestValidName(t *testing.T) {
	assert.True(t, artifacts.ValidName("0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.png"))
	assert.True(t, artifacts.ValidName("0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.jpg"))
	assert.False(t, artifacts.ValidName("0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.gif"))
	assert.False(t, artifacts.ValidName("../0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.png"))
	assert.False(t, artifacts.ValidName(""))

	assert.Equal(t, "image/jpeg", artifacts.MimeTypeFor("x.jpg"))
	assert.Equal(t, "image/png", artifacts.MimeTypeFor("x.png"))
}
