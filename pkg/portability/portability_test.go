package portability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/registry"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

func ptr[T any](v T) *T { return &v }

func seeded(t *testing.T) (*registry.Registry, *requestlog.MemoryStore) {
	t.Helper()
	logs := requestlog.NewMemoryStore(10)
	reg := registry.New(registry.WithCascade(logs))
	users, err := reg.Create(endpoint.Draft{
		Name:         "Users",
		Method:       "GET",
		Path:         "/users",
		Headers:      map[string]string{"X-Mock": "1"},
		ResponseBody: ptr(`[{"id":1}]`),
		DelayMs:      ptr(25),
	})
	require.NoError(t, err)
	_, err = reg.Create(endpoint.Draft{Name: "Create", Method: "POST", Path: "/users", StatusCode: ptr(201), IsActive: ptr(false)})
	require.NoError(t, err)
	logs.Append(requestlog.Entry{EndpointID: users.ID, Method: "GET", Path: "/users", ResponseStatus: 200})
	return reg, logs
}

func TestParseAndDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatYAML, ParseFormat("yml"))
	assert.Equal(t, FormatUnknown, ParseFormat("har"))

	assert.Equal(t, FormatJSON, DetectFormat(nil, "backup.json"))
	assert.Equal(t, FormatYAML, DetectFormat(nil, "seed.YML"))
	assert.Equal(t, FormatJSON, DetectFormat([]byte("  {\"endpoints\":[]}"), ""))
	assert.Equal(t, FormatYAML, DetectFormat([]byte("endpoints: []"), "seed"))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte("   "), ""))
}

func TestExport(t *testing.T) {
	reg, logs := seeded(t)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	snap := Export(reg, logs, now)

	assert.Equal(t, now, snap.ExportedAt)
	require.Len(t, snap.Endpoints, 2)
	assert.Equal(t, "Users", snap.Endpoints[0].Name)
	require.Len(t, snap.Logs, 1)

	snap = Export(reg, nil, now)
	assert.NotNil(t, snap.Logs)
	assert.Empty(t, snap.Logs)
}

func TestRoundTripThroughImport(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			src, logs := seeded(t)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, Export(src, logs, time.Now()), format))

			backup, err := Decode(buf.Bytes(), FormatUnknown)
			require.NoError(t, err)

			dst := registry.New()
			result := Import(dst, backup)

			assert.Equal(t, 2, result.Imported)
			assert.Zero(t, result.Failed)
			assert.Equal(t, 1, result.SkippedLogs)

			opts := cmpopts.IgnoreFields(endpoint.Definition{}, "ID", "CreatedAt")
			if diff := cmp.Diff(src.List(), dst.List(), opts); diff != "" {
				t.Errorf("imported definitions mismatch (-want +got):\n%s", diff)
			}
			for i, def := range dst.List() {
				assert.NotEqual(t, src.List()[i].ID, def.ID)
			}
		})
	}
}

func TestImport_LegacyDashboardBackup(t *testing.T) {
	data := `{
	  "endpoints": [
	    {"id": "1712", "name": "Slow", "method": "get", "path": "slow/", "delay": 300, "createdAt": "2024-01-01T00:00:00.000Z"},
	    {"id": "1713", "name": "", "method": "GET", "path": "/broken"},
	    {"name": "Teapot", "method": "TRACE", "path": "/tea"}
	  ],
	  "logs": [{"id": "a", "headers": {"set-cookie": ["a", "b"]}}]
	}`

	backup, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)

	reg := registry.New()
	result := Import(reg, backup)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.SkippedLogs)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, 1, result.Failures[0].Index)
	assert.Equal(t, "name", result.Failures[0].Field)
	assert.Equal(t, "method", result.Failures[1].Field)

	def := result.Endpoints[0]
	assert.Equal(t, "GET", def.Method)
	assert.Equal(t, "/slow", def.Path)
	assert.Equal(t, 300, def.DelayMs)
	assert.Equal(t, 200, def.StatusCode)
	assert.NotEqual(t, "1712", def.ID)
}

func TestImport_YAMLLegacyDelay(t *testing.T) {
	data := "endpoints:\n  - name: Slow\n    method: get\n    path: /slow\n    delay: 75\n"

	backup, err := Decode([]byte(data), FormatYAML)
	require.NoError(t, err)

	result := Import(registry.New(), backup)
	require.Equal(t, 1, result.Imported)
	assert.Equal(t, 75, result.Endpoints[0].DelayMs)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(nil, FormatJSON)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Decode([]byte("{not json"), FormatJSON)
	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, FormatJSON, importErr.Format)
	assert.True(t, strings.HasPrefix(err.Error(), "json: parsing backup"))

	_, err = Decode([]byte("x"), Format("toml"))
	assert.Error(t, err)
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	var exportErr *ExportError
	assert.ErrorAs(t, Encode(&bytes.Buffer{}, Snapshot{}, Format("csv")), &exportErr)
}

func TestSnapshotBackup(t *testing.T) {
	reg, logs := seeded(t)
	backup := Export(reg, logs, time.Now()).Backup()

	require.Len(t, backup.Endpoints, 2)
	assert.Equal(t, 25, *backup.Endpoints[0].DelayMs)
	assert.False(t, *backup.Endpoints[1].IsActive)
	assert.Len(t, backup.Logs, 1)

	result := Import(registry.New(), backup)
	assert.Equal(t, 2, result.Imported)
}

func TestImport_NilBackup(t *testing.T) {
	result := Import(registry.New(), nil)
	assert.Zero(t, result.Imported)
	assert.NotNil(t, result.Endpoints)
}
