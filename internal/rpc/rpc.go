package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"mckeeper/internal/config"
	"mckeeper/internal/models"
)

// HTTPConfig holds the daemon client settings.
type HTTPConfig struct {
	Address string        // daemon listening address
	Timeout time.Duration // request timeout
	BaseURL string        // base URL, normally http://localhost
}

// DefaultHTTPConfig points the client at the configured daemon address.
func DefaultHTTPConfig() *HTTPConfig {
	address := config.Config.Server.Address
	if strings.HasPrefix(address, ":") {
		address = "127.0.0.1" + address
	}
	return &HTTPConfig{
		Address: address,
		Timeout: 5 * time.Second,
		BaseURL: "http://" + address,
	}
}

// HTTPResponse carries a decoded daemon response.
type HTTPResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Error      string              `json:"error"`
}

// Client talks to the running daemon over HTTP.
type Client struct {
	config *HTTPConfig
	client *http.Client
}

func NewHTTPClient(cfg *HTTPConfig) *Client {
	if cfg == nil {
		cfg = DefaultHTTPConfig()
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

/**
 * Send a GET request to the daemon
 * @param {string} path - API path (e.g. "/mckeeper/api/v1/server/status")
 * @param {map[string]interface{}} params - Optional query parameters
 */
func (c *Client) Get(path string, params map[string]interface{}) (*HTTPResponse, error) {
	fullURL, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Get(fullURL)
	if err != nil {
		return nil, err
	}
	return deserializeResponse(resp)
}

/**
 * Send a POST request with a JSON body to the daemon
 * @param {string} path - API path
 * @param {map[string]interface{}} params - Optional query parameters
 * @param {interface{}} data - Body, nil for an empty request
 */
func (c *Client) Post(path string, params map[string]interface{}, data interface{}) (*HTTPResponse, error) {
	fullURL, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, err
	}
	body, err := serializeData(data)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Post(fullURL, "application/json", body)
	if err != nil {
		return nil, err
	}
	return deserializeResponse(resp)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

/**
 * Report whether a request error means no daemon is listening
 * @param {error} err - Error returned by Get or Post
 * @returns {bool} True only for connection failures
 * @description
 * - A refused or failed dial means nothing is bound to the daemon
 *   address, so a local fallback is safe
 * - A timeout means a daemon accepted the request and is still working
 *   on it; falling back would run the operation twice
 */
func IsDaemonDown(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}

// OK reports whether the response carries a 2xx status.
func (r *HTTPResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func buildURL(baseURL, path string, params map[string]interface{}) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Path == "" {
		u.Path = path
	} else {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		u.Path += path
	}

	if params != nil {
		q := u.Query()
		for key, value := range params {
			q.Set(key, fmt.Sprintf("%v", value))
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func serializeData(data interface{}) (io.Reader, error) {
	if data == nil {
		return nil, nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize data: %w", err)
	}
	return bytes.NewReader(jsonData), nil
}

func deserializeResponse(resp *http.Response) (*HTTPResponse, error) {
	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	defer resp.Body.Close()
	httpResp.Body = body
	if httpResp.OK() {
		return httpResp, nil
	}
	if len(body) > 0 {
		var errBody models.ErrorResponse
		if err := json.Unmarshal(body, &errBody); err != nil {
			httpResp.Error = err.Error()
		} else {
			httpResp.Error = errBody.Message
		}
	}
	if httpResp.Error == "" {
		httpResp.Error = resp.Status
	}
	return httpResp, nil
}
