package rpc

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	return NewHTTPClient(&HTTPConfig{
		Address: serverURL,
		Timeout: 2 * time.Second,
		BaseURL: serverURL,
	})
}

func TestClientGetAndPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/mckeeper/api/v1/server/status":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"state": "stopped"}`))
		case r.Method == "POST" && r.URL.Path == "/mckeeper/api/v1/server/start":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status": "success"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	defer client.Close()

	resp, err := client.Get("/mckeeper/api/v1/server/status", nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Contains(t, string(resp.Body), "stopped")

	resp, err = client.Post("/mckeeper/api/v1/server/start", nil, nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestClientDecodesErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code": "server.already_running", "message": "server is already running"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	defer client.Close()

	resp, err := client.Post("/mckeeper/api/v1/server/start", nil, nil)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "server is already running", resp.Error)
}

func TestClientQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("lines"))
		w.Write([]byte(`{"lines": []}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	defer client.Close()

	resp, err := client.Get("/mckeeper/api/v1/server/logs", map[string]interface{}{"lines": 25})
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestPostQueryParamsReachRouter(t *testing.T) {
	var gotPath, gotPort string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPort = r.URL.Query().Get("port")
		w.Write([]byte(`{"status": "success"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	defer client.Close()

	resp, err := client.Post("/mckeeper/api/v1/tunnels/ngrok/start",
		map[string]interface{}{"port": 25565}, nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	// the query must never end up percent-encoded into the path
	assert.Equal(t, "/mckeeper/api/v1/tunnels/ngrok/start", gotPath)
	assert.Equal(t, "25565", gotPort)
}

func TestIsDaemonDown(t *testing.T) {
	assert.False(t, IsDaemonDown(nil))

	// nothing listens on the address after the server closes
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	client := testClient(deadURL)
	defer client.Close()
	_, err := client.Post("/mckeeper/api/v1/server/start", nil, nil)
	require.Error(t, err)
	assert.True(t, IsDaemonDown(err))
}

func TestSlowDaemonIsNotDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewHTTPClient(&HTTPConfig{
		Address: server.URL,
		Timeout: 50 * time.Millisecond,
		BaseURL: server.URL,
	})
	defer client.Close()

	_, err := client.Post("/mckeeper/api/v1/server/start", nil, nil)
	require.Error(t, err)
	// a timeout means a daemon is working on the request, not that no
	// daemon exists
	assert.False(t, IsDaemonDown(err))
}
