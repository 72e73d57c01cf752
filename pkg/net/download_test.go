package net

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file content"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, Download(srv.URL, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file content", string(b))
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.txt")
	err := Download(srv.URL, path)
	assert.ErrorIs(t, err, ErrorURLNotFound)
}

func TestDownload_BadPath(t *testing.T) {
	assert.Error(t, Download("http://localhost", filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt")))
}
