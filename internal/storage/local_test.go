package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestObjectStore(t *testing.T) (*LocalObjectStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalObjectStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestLocalObjectStore_Put(t *testing.T) {
	store, dir := setupTestObjectStore(t)
	content := []byte("\x89PNG\r\n\x1a\n")

	ref, err := store.Put(context.Background(), "abc_photo.png", "image/png", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "abc_photo.png")), ref)

	data, err := os.ReadFile(filepath.Join(dir, "abc_photo.png"))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalObjectStore_RelativeReference(t *testing.T) {
	chdir(t, t.TempDir())

	store, err := NewLocalObjectStore("")
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "x.jpg", "image/jpeg", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, "uploads/x.jpg", ref)
	assert.FileExists(t, filepath.Join(store.Dir(), "x.jpg"))
}

func TestLocalObjectStore_RejectsPaths(t *testing.T) {
	store, _ := setupTestObjectStore(t)

	for _, name := range []string{"", "..", "../escape.png", "sub/dir.png"} {
		_, err := store.Put(context.Background(), name, "", strings.NewReader("x"))
		assert.Error(t, err, name)
	}
}

func TestUniqueName(t *testing.T) {
	tests := []struct {
		original string
		base     string
	}{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\pool.png`, "pool.png"},
		{"", "upload"},
		{"..", "upload"},
	}

	for _, tt := range tests {
		name := UniqueName(tt.original)
		prefix, base, ok := strings.Cut(name, "_")
		require.True(t, ok, name)
		_, err := uuid.Parse(prefix)
		assert.NoError(t, err)
		assert.Equal(t, tt.base, base)
	}

	assert.NotEqual(t, UniqueName("a.png"), UniqueName("a.png"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (testing.T.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
