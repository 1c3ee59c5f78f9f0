package fetch

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "paper", "build": 40}`))
	}))
	defer server.Close()

	var out struct {
		Name  string `json:"name"`
		Build int    `json:"build"`
	}
	require.NoError(t, GetJSON(server.URL, nil, &out))
	assert.Equal(t, "paper", out.Name)
	assert.Equal(t, 40, out.Build)
}

func TestGetBytesNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := GetBytes(server.URL, nil)
	assert.Error(t, err)
}

func TestGetFileVerifiesChecksum(t *testing.T) {
	payload := []byte("fake server jar contents")
	digest := sha1.Sum(payload)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "server.jar")
	require.NoError(t, GetFile(server.URL, dest, hex.EncodeToString(digest[:])))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestGetFileRejectsBadChecksum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("corrupted"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "server.jar")
	err := GetFile(server.URL, dest, "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")

	// the destination must not exist after a failed download
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	got, err := FileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)
}
