package endpoint

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"   ", "/"},
		{"/", "/"},
		{"users", "/users"},
		{"users/", "/users"},
		{"/users", "/users"},
		{"/users/", "/users"},
		{"/a/b/c/", "/a/b/c"},
		{" /trimmed ", "/trimmed"},
		{"//", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestNormalizePath_Idempotent(t *testing.T) {
	for _, p := range []string{"", "/", "users", "users/", "/a/b", "/a/b/", "x/y/z"} {
		once := NormalizePath(p)
		assert.Equal(t, once, NormalizePath(once), "input %q", p)
	}
	assert.Equal(t, NormalizePath("/users"), NormalizePath("users/"))
}

func TestNormalizePath_DoubleTrailingSlash(t *testing.T) {
	once := NormalizePath("/users//")
	assert.Equal(t, "/users/", once)
	assert.Equal(t, "/users", NormalizePath(once))
	assert.NotEqual(t, NormalizePath("/users"), once)
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name      string
		draft     Draft
		wantField string
	}{
		{"valid", Draft{Name: "Users", Method: "get", Path: "/users"}, ""},
		{"missing name", Draft{Method: "GET", Path: "/users"}, "name"},
		{"blank name", Draft{Name: "  ", Method: "GET", Path: "/users"}, "name"},
		{"missing method", Draft{Name: "x", Path: "/users"}, "method"},
		{"unknown method", Draft{Name: "x", Method: "TRACE", Path: "/users"}, "method"},
		{"missing path", Draft{Name: "x", Method: "GET"}, "path"},
		{"bad status", Draft{Name: "x", Method: "GET", Path: "/", StatusCode: intPtr(42)}, "statusCode"},
		{"bad content type", Draft{Name: "x", Method: "GET", Path: "/", ContentType: "image/png"}, "contentType"},
		{"negative delay", Draft{Name: "x", Method: "GET", Path: "/", DelayMs: intPtr(-1)}, "delayMs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestDraft_BuildDefaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := Draft{Name: "Users", Method: "post", Path: "users/"}

	def, err := d.Build("id-1", now)
	require.NoError(t, err)

	assert.Equal(t, "id-1", def.ID)
	assert.Equal(t, "POST", def.Method)
	assert.Equal(t, "/users", def.Path)
	assert.Equal(t, 200, def.StatusCode)
	assert.Equal(t, ContentTypeJSON, def.ContentType)
	assert.Equal(t, 0, def.DelayMs)
	assert.True(t, def.IsActive)
	assert.Empty(t, def.ResponseBody)
	assert.NotNil(t, def.Headers)
	assert.Empty(t, def.Headers)
	assert.Equal(t, now, def.CreatedAt)
}

func TestDraft_BuildExplicit(t *testing.T) {
	headers := map[string]string{"X-Test": "1"}
	d := Draft{
		Name:         "Slow",
		Method:       "PUT",
		Path:         "/slow",
		StatusCode:   intPtr(202),
		Headers:      headers,
		ResponseBody: strPtr("<ok/>"),
		ContentType:  ContentTypeXML,
		DelayMs:      intPtr(50),
		IsActive:     boolPtr(false),
	}
	def, err := d.Build("id-2", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 202, def.StatusCode)
	assert.Equal(t, "<ok/>", def.ResponseBody)
	assert.Equal(t, ContentTypeXML, def.ContentType)
	assert.Equal(t, 50*time.Millisecond, def.Delay())
	assert.False(t, def.IsActive)

	// the definition must not alias the draft's map
	headers["X-Test"] = "changed"
	assert.Equal(t, "1", def.Headers["X-Test"])
}

func TestDraft_UnmarshalLegacyDelay(t *testing.T) {
	var d Draft
	require.NoError(t, json.Unmarshal([]byte(`{"name":"n","method":"GET","path":"/","delay":75}`), &d))
	require.NotNil(t, d.DelayMs)
	assert.Equal(t, 75, *d.DelayMs)

	var both Draft
	require.NoError(t, json.Unmarshal([]byte(`{"name":"n","method":"GET","path":"/","delay":75,"delayMs":10}`), &both))
	assert.Equal(t, 10, *both.DelayMs)
}

func TestDraft_UnmarshalYAMLLegacyDelay(t *testing.T) {
	var d Draft
	require.NoError(t, yaml.Unmarshal([]byte("name: n\nmethod: GET\npath: /slow\ndelay: 75\nstatusCode: 201\n"), &d))
	require.NotNil(t, d.DelayMs)
	assert.Equal(t, 75, *d.DelayMs)
	assert.Equal(t, "/slow", d.Path)
	require.NotNil(t, d.StatusCode)
	assert.Equal(t, 201, *d.StatusCode)

	var both Draft
	require.NoError(t, yaml.Unmarshal([]byte("name: n\ndelay: 75\ndelayMs: 10\n"), &both))
	assert.Equal(t, 10, *both.DelayMs)

	var p Patch
	require.NoError(t, yaml.Unmarshal([]byte("delay: 20\n"), &p))
	require.NotNil(t, p.DelayMs)
	assert.Equal(t, 20, *p.DelayMs)
	assert.Nil(t, p.Name)
}

func TestDraftOf_RoundTrip(t *testing.T) {
	orig, err := (&Draft{
		Name: "Users", Method: "GET", Path: "/users",
		Headers: map[string]string{"A": "b"}, ResponseBody: strPtr("{}"),
		DelayMs: intPtr(5), IsActive: boolPtr(false),
	}).Build("old", time.Now())
	require.NoError(t, err)

	d := DraftOf(orig)
	rebuilt, err := d.Build("new", time.Now())
	require.NoError(t, err)

	orig.ID, orig.CreatedAt = rebuilt.ID, rebuilt.CreatedAt
	assert.Equal(t, orig, rebuilt)
}

func TestPatch_ApplyOnlyProvidedFields(t *testing.T) {
	base, err := (&Draft{
		Name: "Users", Method: "GET", Path: "/users",
		Headers: map[string]string{"A": "1"}, ResponseBody: strPtr("body"),
	}).Build("id", time.Now())
	require.NoError(t, err)

	p := Patch{StatusCode: intPtr(418), Method: strPtr("delete")}
	require.NoError(t, p.Validate())
	got := p.Apply(base)

	assert.Equal(t, 418, got.StatusCode)
	assert.Equal(t, "DELETE", got.Method)

	got.StatusCode, got.Method = base.StatusCode, base.Method
	assert.Equal(t, base, got)
}

func TestPatch_ApplyNormalizesPathAndCopiesHeaders(t *testing.T) {
	base := Definition{ID: "id", Path: "/a", Headers: map[string]string{}}
	headers := map[string]string{"X": "y"}
	p := Patch{Path: strPtr("b/"), Headers: headers}

	got := p.Apply(base)
	assert.Equal(t, "/b", got.Path)
	headers["X"] = "z"
	assert.Equal(t, "y", got.Headers["X"])
	assert.Equal(t, "/a", base.Path, "base definition must not change")
}

func TestPatch_Validate(t *testing.T) {
	assert.NoError(t, (&Patch{}).Validate())
	assert.True(t, (&Patch{}).IsEmpty())

	var ve *ValidationError
	assert.ErrorAs(t, (&Patch{Name: strPtr("")}).Validate(), &ve)
	assert.ErrorAs(t, (&Patch{Method: strPtr("CONNECT")}).Validate(), &ve)
	assert.ErrorAs(t, (&Patch{Path: strPtr(" ")}).Validate(), &ve)
	assert.ErrorAs(t, (&Patch{StatusCode: intPtr(700)}).Validate(), &ve)
	assert.ErrorAs(t, (&Patch{ContentType: strPtr("x")}).Validate(), &ve)
	assert.ErrorAs(t, (&Patch{DelayMs: intPtr(-5)}).Validate(), &ve)
}

func TestPatch_UnmarshalLegacyDelay(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"delay":20,"isActive":false}`), &p))
	require.NotNil(t, p.DelayMs)
	assert.Equal(t, 20, *p.DelayMs)
	require.NotNil(t, p.IsActive)
	assert.False(t, *p.IsActive)
	assert.Nil(t, p.Name)
}

func TestDefinition_Matches(t *testing.T) {
	def := Definition{Method: "GET", Path: "/users", IsActive: true}
	assert.True(t, def.Matches("GET", "/users"))
	assert.False(t, def.Matches("POST", "/users"))
	assert.False(t, def.Matches("GET", "/users/1"))

	def.IsActive = false
	assert.False(t, def.Matches("GET", "/users"))
}
