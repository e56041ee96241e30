package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/logging"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

// ErrNoMatch is returned when no active endpoint serves the request.
var ErrNoMatch = errors.New("no matching mock endpoint")

// ErrInternal wraps unexpected failures while synthesizing a response.
var ErrInternal = errors.New("internal dispatch error")

// Registry is the view of the endpoint registry the dispatcher needs.
type Registry interface {
	Match(method, path string) (endpoint.Definition, bool)
	WithEndpoint(endpointID string, fn func(endpoint.Definition)) bool
}

// Recorder receives dispatch outcomes for metrics.
type Recorder interface {
	ObserveDispatch(method string, status int, elapsed time.Duration)
	ObserveMiss(method string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDispatch(string, int, time.Duration) {}
func (nopRecorder) ObserveMiss(string) {}

// Request is an inbound mock request with the mount prefix already removed.
type Request struct {
	Method string
	Path   string

	// Headers use lower-cased names; repeated values are joined with ", ".
	Headers map[string]string

	// Body is the classified request body (see ClassifyBody).
	Body string
}

// Response is a synthesized mock response.
type Response struct {
	StatusCode int

	// Headers holds the endpoint headers with Content-Type applied last.
	Headers map[string]string

	Body string

	EndpointID string

	// LogEntryID is empty when the endpoint was deleted before the entry
	// could be recorded.
	LogEntryID string

	// Elapsed covers matching, delay and synthesis.
	Elapsed time.Duration
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec Recorder) DispatcherOption {
	return func(d *Dispatcher) {
		if rec != nil {
			d.metrics = rec
		}
	}
}

// WithSleep replaces the function used to apply endpoint delays.
func WithSleep(sleep func(time.Duration)) DispatcherOption {
	return func(d *Dispatcher) {
		if sleep != nil {
			d.sleep = sleep
		}
	}
}

// WithClock replaces the time source used to measure response time.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// Dispatcher resolves requests to endpoint definitions.
type Dispatcher struct {
	registry Registry
	logs     requestlog.Logger
	log      *slog.Logger
	metrics  Recorder
	sleep    func(time.Duration)
	now      func() time.Time
}

// NewDispatcher creates a dispatcher over the given registry and log.
func NewDispatcher(registry Registry, logs requestlog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logs:     logs,
		log:      logging.Nop(),
		metrics:  nopRecorder{},
		sleep:    time.Sleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch matches the request, applies the endpoint delay, records a log
// entry and returns the response. Unmatched requests return ErrNoMatch and
// are not recorded.
func (d *Dispatcher) Dispatch(req Request) (resp Response, err error) {
	start := d.now()
	method := endpoint.NormalizeMethod(req.Method)
	path := endpoint.NormalizePath(req.Path)

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("panic during dispatch", "method", method, "path", path, "panic", r)
			resp, err = Response{}, fmt.Errorf("%w: panic: %v", ErrInternal, r)
		}
	}()

	def, ok := d.registry.Match(method, path)
	if !ok {
		d.metrics.ObserveMiss(method)
		return Response{}, ErrNoMatch
	}

	headers, err := responseHeaders(def)
	if err != nil {
		d.log.Error("invalid endpoint headers", "endpoint", def.ID, "error", err)
		return Response{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if delay := def.Delay(); delay > 0 {
		d.sleep(delay)
	}

	resp = Response{
		StatusCode: def.StatusCode,
		Headers:    headers,
		Body:       def.ResponseBody,
		EndpointID: def.ID,
		Elapsed:    d.now().Sub(start),
	}

	entry := requestlog.Entry{
		EndpointID:     def.ID,
		Method:         method,
		Path:           path,
		Headers:        req.Headers,
		Body:           req.Body,
		Timestamp:      d.now().UTC(),
		ResponseStatus: resp.StatusCode,
		ResponseTime:   resp.Elapsed.Milliseconds(),
	}
	recorded := d.registry.WithEndpoint(def.ID, func(endpoint.Definition) {
		resp.LogEntryID = d.logs.Append(entry).ID
	})
	if !recorded {
		d.log.Debug("endpoint removed before logging", "endpoint", def.ID)
	}

	d.metrics.ObserveDispatch(method, resp.StatusCode, resp.Elapsed)
	return resp, nil
}

// responseHeaders copies the endpoint headers, drops any Content-Type entry
// regardless of case, and sets Content-Type from the endpoint.
func responseHeaders(def endpoint.Definition) (map[string]string, error) {
	out := make(map[string]string, len(def.Headers)+1)
	for name, value := range def.Headers {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("invalid header name %q", name)
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("invalid value for header %q", name)
		}
		if strings.EqualFold(name, "Content-Type") {
			continue
		}
		out[name] = value
	}
	if !httpguts.ValidHeaderFieldValue(def.ContentType) {
		return nil, fmt.Errorf("invalid content type %q", def.ContentType)
	}
	out["Content-Type"] = def.ContentType
	return out, nil
}
