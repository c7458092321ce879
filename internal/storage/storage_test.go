package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name, base, path, want string
	}{
		{"relative", "https://api.example.com", "projects/a.png", "https://api.example.com/storage/projects/a.png"},
		{"trailing slash", "https://api.example.com/", "/projects/a.png", "https://api.example.com/storage/projects/a.png"},
		{"absolute", "https://api.example.com", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"empty", "https://api.example.com", "", ""},
		{"no base", "", "projects/a.png", "/storage/projects/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicURL(tt.base, tt.path))
		})
	}
}

func TestLocalSaveExistsDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocal(root, "http://localhost:8081")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "projects/a.txt", strings.NewReader("hello"), "text/plain"))
	data, err := os.ReadFile(filepath.Join(root, "projects", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ok, err := s.Exists(ctx, "projects/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8081/storage/projects/a.txt", s.URL("projects/a.txt"))

	require.NoError(t, s.Delete(ctx, "projects/a.txt"))
	ok, err = s.Exists(ctx, "projects/a.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting twice is fine.
	require.NoError(t, s.Delete(ctx, "projects/a.txt"))
}

func TestLocalPathsStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocal(filepath.Join(root, "public"), "")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), ""))
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "public", "escape.txt"))
	assert.NoError(t, err)

	assert.ErrorIs(t, s.Save(ctx, "", strings.NewReader("x"), ""), ErrInvalidPath)
}

func TestLocalHandler(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "projects/a.txt", strings.NewReader("hello"), ""))

	h := http.StripPrefix("/storage", s.Handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/projects/a.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/projects/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
