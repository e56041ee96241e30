package engine

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

func newTestServer(t *testing.T, opts ...HandlerOption) (*fixture, *httptest.Server) {
	t.Helper()
	f := newFixture(t)
	srv := httptest.NewServer(NewHandler(f.d, opts...))
	t.Cleanup(srv.Close)
	return f, srv
}

func doRequest(t *testing.T, method, url, contentType, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestHandler_ServesMatchedEndpoint(t *testing.T) {
	f, srv := newTestServer(t)
	f.create(t, endpoint.Draft{
		Name:         "Users",
		Method:       "GET",
		Path:         "/users",
		Headers:      map[string]string{"X-Mock": "yes"},
		ResponseBody: ptr(`{"ok":true}`),
	})

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/api/users/", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, body)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "yes", resp.Header.Get("X-Mock"))

	entries := f.logs.List(10)
	require.Len(t, entries, 1)
	assert.Equal(t, "/users", entries[0].Path)
}

func TestHandler_LogsCanonicalBody(t *testing.T) {
	f, srv := newTestServer(t)
	f.create(t, endpoint.Draft{Name: "Create", Method: "POST", Path: "/users", StatusCode: ptr(201)})

	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/api/users", "application/json", `{"name":"Ada","age":36}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	entries := f.logs.List(10)
	require.Len(t, entries, 1)
	assert.Equal(t, `{"age":36,"name":"Ada"}`, entries[0].Body)
	assert.Equal(t, "application/json", entries[0].Headers["content-type"])
	assert.Equal(t, 201, entries[0].ResponseStatus)
}

func TestHandler_RootOfPrefix(t *testing.T) {
	f, srv := newTestServer(t)
	f.create(t, endpoint.Draft{Name: "Root", Method: "GET", Path: "/", ResponseBody: ptr("root")})

	_, body := doRequest(t, http.MethodGet, srv.URL+"/api", "", "")
	assert.Equal(t, "root", body)

	_, body = doRequest(t, http.MethodGet, srv.URL+"/api/", "", "")
	assert.Equal(t, "root", body)
}

func TestHandler_NoMatch(t *testing.T) {
	f, srv := newTestServer(t)

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/api/unknown", "", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"No matching mock endpoint"}`, body)
	assert.Zero(t, f.logs.Count())
}

func TestHandler_InternalError(t *testing.T) {
	f, srv := newTestServer(t)
	f.create(t, endpoint.Draft{Name: "Broken", Method: "GET", Path: "/broken", Headers: map[string]string{"Bad Header": "x"}})
	f.create(t, endpoint.Draft{Name: "Fine", Method: "GET", Path: "/fine"})

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/api/broken", "", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, body)

	resp, _ = doRequest(t, http.MethodGet, srv.URL+"/api/fine", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_BodyTooLarge(t *testing.T) {
	f, srv := newTestServer(t, WithMaxBodyBytes(16))
	f.create(t, endpoint.Draft{Name: "Upload", Method: "POST", Path: "/upload"})

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/api/upload", "text/plain", strings.Repeat("x", 64))

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Request body too large"}`, body)
	assert.Zero(t, f.logs.Count())
}

func TestHandler_StripPrefix(t *testing.T) {
	h := NewHandler(nil)
	assert.Equal(t, "/users", h.stripPrefix("/api/users"))
	assert.Equal(t, "", h.stripPrefix("/api"))
	assert.Equal(t, "/apix", h.stripPrefix("/apix"))

	h = NewHandler(nil, WithPrefix("/mock/"))
	assert.Equal(t, "/a", h.stripPrefix("/mock/a"))

	h = NewHandler(nil, WithPrefix(""))
	assert.Equal(t, "/api/a", h.stripPrefix("/api/a"))
}

func TestHandler_StatusAndTextBody(t *testing.T) {
	f, srv := newTestServer(t)
	f.create(t, endpoint.Draft{
		Name:         "Teapot",
		Method:       "PATCH",
		Path:         "/brew",
		StatusCode:   ptr(418),
		ContentType:  "text/plain",
		ResponseBody: ptr("short and stout"),
	})

	resp, body := doRequest(t, http.MethodPatch, srv.URL+"/api/brew", "", "")

	assert.Equal(t, 418, resp.StatusCode)
	assert.Equal(t, "short and stout", body)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Equal(t, 1, f.logs.Count())
	assert.Len(t, f.logs.List(requestlog.DefaultListLimit), 1)
}
