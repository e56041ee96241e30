package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/registry"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	reg  *registry.Registry
	logs *requestlog.MemoryStore
	d    *Dispatcher
}

func newFixture(t *testing.T, opts ...DispatcherOption) *fixture {
	t.Helper()
	logs := requestlog.NewMemoryStore(requestlog.DefaultCapacity)
	reg := registry.New(registry.WithCascade(logs))
	return &fixture{reg: reg, logs: logs, d: NewDispatcher(reg, logs, opts...)}
}

func (f *fixture) create(t *testing.T, draft endpoint.Draft) endpoint.Definition {
	t.Helper()
	def, err := f.reg.Create(draft)
	require.NoError(t, err)
	return def
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestDispatch_UsersScenario(t *testing.T) {
	f := newFixture(t)
	def := f.create(t, endpoint.Draft{
		Name:         "Users",
		Method:       "GET",
		Path:         "/users",
		StatusCode:   ptr(200),
		ContentType:  "application/json",
		ResponseBody: ptr(`{"ok":true}`),
	})

	resp, err := f.d.Dispatch(Request{Method: "GET", Path: "/users", Headers: map[string]string{"accept": "*/*"}})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, def.ID, resp.EndpointID)

	entries := f.logs.List(requestlog.DefaultListLimit)
	require.Len(t, entries, 1)
	assert.Equal(t, resp.LogEntryID, entries[0].ID)
	assert.Equal(t, def.ID, entries[0].EndpointID)
	assert.Equal(t, 200, entries[0].ResponseStatus)
	assert.Equal(t, "GET", entries[0].Method)
	assert.Equal(t, "/users", entries[0].Path)
	assert.Equal(t, "*/*", entries[0].Headers["accept"])
}

func TestDispatch_NoMatchIsNotLogged(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{Name: "Users", Method: "GET", Path: "/users"})

	_, err := f.d.Dispatch(Request{Method: "POST", Path: "/unknown"})
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Zero(t, f.logs.Count())
}

func TestDispatch_MethodMismatch(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{Name: "Users", Method: "GET", Path: "/users"})

	_, err := f.d.Dispatch(Request{Method: "POST", Path: "/users"})
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = f.d.Dispatch(Request{Method: "HEAD", Path: "/users"})
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestDispatch_PathNormalization(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{Name: "Users", Method: "get", Path: "users/"})

	for _, p := range []string{"/users", "/users/", "users"} {
		resp, err := f.d.Dispatch(Request{Method: "GET", Path: p})
		require.NoError(t, err, p)
		assert.Equal(t, 200, resp.StatusCode)
	}

	_, err := f.d.Dispatch(Request{Method: "GET", Path: "/Users"})
	assert.ErrorIs(t, err, ErrNoMatch)

	entries := f.logs.List(10)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "/users", e.Path)
	}
}

func TestDispatch_RootPath(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{Name: "Root", Method: "GET", Path: "/"})

	_, err := f.d.Dispatch(Request{Method: "GET", Path: ""})
	require.NoError(t, err)
}

func TestDispatch_DelayIncludedInResponseTime(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{Name: "Slow", Method: "GET", Path: "/slow", DelayMs: ptr(50)})

	resp, err := f.d.Dispatch(Request{Method: "GET", Path: "/slow"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, resp.Elapsed, 50*time.Millisecond)
	entry, ok := f.logs.Get(resp.LogEntryID)
	require.True(t, ok)
	assert.GreaterOrEqual(t, entry.ResponseTime, int64(50))
}

func TestDispatch_FakeClockDelay(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	f := newFixture(t, WithClock(clock.Now), WithSleep(clock.Sleep))
	f.create(t, endpoint.Draft{Name: "Slow", Method: "GET", Path: "/slow", DelayMs: ptr(1500)})

	resp, err := f.d.Dispatch(Request{Method: "GET", Path: "/slow"})
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, resp.Elapsed)
	entry, ok := f.logs.Get(resp.LogEntryID)
	require.True(t, ok)
	assert.Equal(t, int64(1500), entry.ResponseTime)
	assert.Equal(t, clock.Now(), entry.Timestamp)
}

func TestDispatch_ToggleInactive(t *testing.T) {
	f := newFixture(t)
	def := f.create(t, endpoint.Draft{Name: "Users", Method: "GET", Path: "/users"})

	_, err := f.reg.Update(def.ID, endpoint.Patch{IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = f.d.Dispatch(Request{Method: "GET", Path: "/users"})
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Zero(t, f.logs.Count())
}

func TestDispatch_FirstCreatedWins(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, endpoint.Draft{Name: "A", Method: "GET", Path: "/dup", ResponseBody: ptr("a")})
	f.create(t, endpoint.Draft{Name: "B", Method: "GET", Path: "/dup", ResponseBody: ptr("b")})

	resp, err := f.d.Dispatch(Request{Method: "GET", Path: "/dup"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, resp.EndpointID)
	assert.Equal(t, "a", resp.Body)
}

func TestDispatch_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	def := f.create(t, endpoint.Draft{Name: "Users", Method: "GET", Path: "/users"})
	other := f.create(t, endpoint.Draft{Name: "Other", Method: "GET", Path: "/other"})

	for i := 0; i < 3; i++ {
		_, err := f.d.Dispatch(Request{Method: "GET", Path: "/users"})
		require.NoError(t, err)
	}
	_, err := f.d.Dispatch(Request{Method: "GET", Path: "/other"})
	require.NoError(t, err)

	removed, err := f.reg.Delete(def.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	for _, e := range f.logs.List(10) {
		assert.Equal(t, other.ID, e.EndpointID)
	}
	_, err = f.d.Dispatch(Request{Method: "GET", Path: "/users"})
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestDispatch_DeletedDuringDelay(t *testing.T) {
	var f *fixture
	var target string
	sleep := func(time.Duration) {
		_, err := f.reg.Delete(target)
		require.NoError(t, err)
	}
	f = newFixture(t, WithSleep(sleep))
	def := f.create(t, endpoint.Draft{Name: "Slow", Method: "GET", Path: "/slow", DelayMs: ptr(10), ResponseBody: ptr("snapshot")})
	target = def.ID

	resp, err := f.d.Dispatch(Request{Method: "GET", Path: "/slow"})
	require.NoError(t, err)

	assert.Equal(t, "snapshot", resp.Body)
	assert.Empty(t, resp.LogEntryID)
	assert.Zero(t, f.logs.Count())
}

func TestDispatch_ContentTypeOverridesHeaders(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{
		Name:        "XML",
		Method:      "GET",
		Path:        "/xml",
		ContentType: "application/xml",
		Headers: map[string]string{
			"content-type": "text/plain",
			"X-Trace":      "abc",
		},
	})

	resp, err := f.d.Dispatch(Request{Method: "GET", Path: "/xml"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Content-Type": "application/xml", "X-Trace": "abc"}, resp.Headers)
}

func TestDispatch_InvalidHeaderIsInternal(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{
		Name:    "Broken",
		Method:  "GET",
		Path:    "/broken",
		Headers: map[string]string{"Bad Header": "x"},
	})

	_, err := f.d.Dispatch(Request{Method: "GET", Path: "/broken"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, errors.Is(err, ErrNoMatch))
	assert.Zero(t, f.logs.Count())

	f.create(t, endpoint.Draft{
		Name:    "Newline",
		Method:  "GET",
		Path:    "/newline",
		Headers: map[string]string{"X-Value": "a\r\nb"},
	})
	_, err = f.d.Dispatch(Request{Method: "GET", Path: "/newline"})
	assert.ErrorIs(t, err, ErrInternal)
}

type panickingLogger struct{}

func (panickingLogger) Append(requestlog.Entry) requestlog.Entry { panic("boom") }

func TestDispatch_PanicRecovered(t *testing.T) {
	reg := registry.New()
	_, err := reg.Create(endpoint.Draft{Name: "x", Method: "GET", Path: "/x"})
	require.NoError(t, err)
	d := NewDispatcher(reg, panickingLogger{})

	_, err = d.Dispatch(Request{Method: "GET", Path: "/x"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, err.Error(), "boom")
}

type recorder struct {
	mu      sync.Mutex
	hits    []int
	misses  []string
	elapsed []time.Duration
}

func (r *recorder) ObserveDispatch(_ string, status int, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, status)
	r.elapsed = append(r.elapsed, elapsed)
}

func (r *recorder) ObserveMiss(method string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses = append(r.misses, method)
}

func TestDispatch_RecordsMetrics(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, WithRecorder(rec))
	f.create(t, endpoint.Draft{Name: "x", Method: "PUT", Path: "/x", StatusCode: ptr(202)})

	_, err := f.d.Dispatch(Request{Method: "put", Path: "/x"})
	require.NoError(t, err)
	_, err = f.d.Dispatch(Request{Method: "DELETE", Path: "/x"})
	require.ErrorIs(t, err, ErrNoMatch)

	assert.Equal(t, []int{202}, rec.hits)
	assert.Equal(t, []string{"DELETE"}, rec.misses)
}

func TestDispatch_ConcurrentDelaysDoNotSerialize(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{Name: "Slow", Method: "GET", Path: "/slow", DelayMs: ptr(100)})
	f.create(t, endpoint.Draft{Name: "Fast", Method: "GET", Path: "/fast"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.d.Dispatch(Request{Method: "GET", Path: "/slow"})
	}()

	start := time.Now()
	resp, err := f.d.Dispatch(Request{Method: "GET", Path: "/fast"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 200, resp.StatusCode)
	<-done
}

func TestDispatch_ConcurrentRequestsAllLogged(t *testing.T) {
	f := newFixture(t)
	f.create(t, endpoint.Draft{Name: "x", Method: "GET", Path: "/x"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := f.d.Dispatch(Request{Method: "GET", Path: "/x"})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, f.logs.Count())
}
