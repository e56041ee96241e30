package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waspceptor/waspceptor/pkg/admin"
	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/portability"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

// AdminClient provides methods for communicating with the waspceptor admin API.
type AdminClient interface {
	// ListEndpoints returns all endpoints in creation order.
	ListEndpoints() ([]endpoint.Definition, error)
	// GetEndpoint returns a specific endpoint by ID.
	GetEndpoint(id string) (endpoint.Definition, error)
	// CreateEndpoint creates a new endpoint.
	CreateEndpoint(draft endpoint.Draft) (endpoint.Definition, error)
	// UpdateEndpoint merges patch into an existing endpoint.
	UpdateEndpoint(id string, patch endpoint.Patch) (endpoint.Definition, error)
	// ToggleEndpoint flips isActive, or sets it when active is non-nil.
	ToggleEndpoint(id string, active *bool) (endpoint.Definition, error)
	// DeleteEndpoint deletes an endpoint and its log entries.
	DeleteEndpoint(id string) error
	// ListLogs returns up to limit entries, newest first, optionally for one endpoint.
	ListLogs(limit int, endpointID string) ([]requestlog.Entry, error)
	// ClearLogs deletes all request log entries.
	ClearLogs() error
	// Stats returns the dashboard counters.
	Stats() (admin.Stats, error)
	// Export returns an encoded snapshot.
	Export(format portability.Format, includeLogs bool) ([]byte, error)
	// Import recreates the endpoints of an encoded snapshot.
	Import(data []byte, format portability.Format) (portability.ImportResult, error)
	// Health checks if the server is running.
	Health() error
}

// APIError represents an error response from the admin API.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the admin API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// adminClient implements AdminClient using HTTP.
type adminClient struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures an admin client.
type ClientOption func(*adminClient)

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *adminClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *adminClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewAdminClient creates a new admin API client.
// The baseURL is the admin mount point (e.g., "http://localhost:3000/admin").
func NewAdminClient(baseURL string, opts ...ClientOption) AdminClient {
	c := &adminClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListEndpoints returns all endpoints.
func (c *adminClient) ListEndpoints() ([]endpoint.Definition, error) {
	var defs []endpoint.Definition
	if err := c.doJSON(http.MethodGet, "/endpoints", nil, http.StatusOK, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// GetEndpoint returns a specific endpoint by ID.
func (c *adminClient) GetEndpoint(id string) (endpoint.Definition, error) {
	var def endpoint.Definition
	err := c.doJSON(http.MethodGet, "/endpoints/"+url.PathEscape(id), nil, http.StatusOK, &def)
	return def, err
}

// CreateEndpoint creates a new endpoint.
func (c *adminClient) CreateEndpoint(draft endpoint.Draft) (endpoint.Definition, error) {
	var def endpoint.Definition
	err := c.doJSON(http.MethodPost, "/endpoints", draft, http.StatusCreated, &def)
	return def, err
}

// UpdateEndpoint merges patch into an existing endpoint.
func (c *adminClient) UpdateEndpoint(id string, patch endpoint.Patch) (endpoint.Definition, error) {
	var def endpoint.Definition
	err := c.doJSON(http.MethodPut, "/endpoints/"+url.PathEscape(id), patch, http.StatusOK, &def)
	return def, err
}

// ToggleEndpoint flips or sets isActive.
func (c *adminClient) ToggleEndpoint(id string, active *bool) (endpoint.Definition, error) {
	var body any
	if active != nil {
		body = admin.ToggleRequest{IsActive: active}
	}
	var def endpoint.Definition
	err := c.doJSON(http.MethodPost, "/endpoints/"+url.PathEscape(id)+"/toggle", body, http.StatusOK, &def)
	return def, err
}

// DeleteEndpoint deletes an endpoint by ID.
func (c *adminClient) DeleteEndpoint(id string) error {
	return c.doJSON(http.MethodDelete, "/endpoints/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

// ListLogs returns request log entries.
func (c *adminClient) ListLogs(limit int, endpointID string) ([]requestlog.Entry, error) {
	q := url.Values{}
	if limit >= 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if endpointID != "" {
		q.Set("endpointId", endpointID)
	}
	path := "/logs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var entries []requestlog.Entry
	if err := c.doJSON(http.MethodGet, path, nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearLogs deletes all request log entries.
func (c *adminClient) ClearLogs() error {
	return c.doJSON(http.MethodDelete, "/logs", nil, http.StatusNoContent, nil)
}

// Stats returns the dashboard counters.
func (c *adminClient) Stats() (admin.Stats, error) {
	var stats admin.Stats
	err := c.doJSON(http.MethodGet, "/stats", nil, http.StatusOK, &stats)
	return stats, err
}

// Export returns an encoded snapshot.
func (c *adminClient) Export(format portability.Format, includeLogs bool) ([]byte, error) {
	q := url.Values{"format": {format.String()}}
	if !includeLogs {
		q.Set("logs", "false")
	}
	resp, err := c.request(http.MethodGet, "/export?"+q.Encode(), "", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// Import recreates the endpoints of an encoded snapshot.
func (c *adminClient) Import(data []byte, format portability.Format) (portability.ImportResult, error) {
	path, contentType := "/import", ""
	if format.IsValid() {
		path += "?format=" + format.String()
		contentType = format.ContentType()
	}
	resp, err := c.request(http.MethodPost, path, contentType, bytes.NewReader(data))
	if err != nil {
		return portability.ImportResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result portability.ImportResult
	if err := c.decode(resp, http.StatusOK, &result); err != nil {
		return portability.ImportResult{}, err
	}
	return result, nil
}

// Health checks the server's /health endpoint, which sits at the root
// rather than under the admin mount.
func (c *adminClient) Health() error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid admin URL: %w", err)
	}
	u.Path, u.RawQuery = "/health", ""

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return connectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

func (c *adminClient) doJSON(method, path string, body any, want int, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader, contentType = bytes.NewReader(data), "application/json"
	}

	resp, err := c.request(method, path, contentType, reader)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return c.decode(resp, want, out)
}

func (c *adminClient) request(method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, connectionError(err)
	}
	return resp, nil
}

func (c *adminClient) decode(resp *http.Response, want int, out any) error {
	if resp.StatusCode != want {
		return c.parseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// parseError extracts an APIError from an admin error body:
// {"error":code,"message":...,"field":...} or {"error":message}.
func (c *adminClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.ErrorCode = payload.Error
		apiErr.Message = payload.Message
		apiErr.Field = payload.Field
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	apiErr.ErrorCode = "http_error"
	apiErr.Message = fmt.Sprintf("admin API returned %s", resp.Status)
	if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Message += ": " + text
	}
	return apiErr
}

func connectionError(err error) error {
	return &APIError{
		ErrorCode: "connection_error",
		Message:   fmt.Sprintf("cannot connect to admin API: %v", err),
	}
}

// FormatConnectionError returns a user-friendly error message for connection errors.
func FormatConnectionError(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode == "connection_error" {
		return fmt.Sprintf(`Error: %s

Suggestions:
  • Start the server: waspceptor serve
  • Check if the server is running on the expected port
  • Verify the admin URL with --admin-url or WASPCEPTOR_ADMIN_URL`, apiErr.Message)
	}
	return err.Error()
}

// FormatNotFoundError returns a user-friendly error message for not found errors.
func FormatNotFoundError(resourceType, id string) string {
	return fmt.Sprintf(`Error: %s not found: %s

Suggestions:
  • Check the ID with: waspceptor endpoints list
  • Verify you're connected to the right server`, resourceType, id)
}

// commandError maps a client error to the message a command returns.
func commandError(err error, resourceType, id string) error {
	if id != "" && IsNotFound(err) {
		return errors.New(FormatNotFoundError(resourceType, id))
	}
	return errors.New(FormatConnectionError(err))
}
