package engine

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/waspceptor/waspceptor/pkg/httputil"
	"github.com/waspceptor/waspceptor/pkg/logging"
)

// DefaultPrefix is the path prefix under which mock endpoints are served.
const DefaultPrefix = "/api"

// DefaultMaxBodyBytes bounds the request body read for logging.
const DefaultMaxBodyBytes int64 = 2 << 20

// Bodies written by the mock surface for requests that produce no
// endpoint response.
const (
	MessageNoMatch  = "No matching mock endpoint"
	MessageInternal = "Internal server error"
	MessageTooLarge = "Request body too large"
	MessageBadBody  = "Invalid request body"
)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithPrefix sets the mount prefix stripped before matching.
func WithPrefix(prefix string) HandlerOption {
	return func(h *Handler) {
		h.prefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithMaxBodyBytes sets the request body limit. Non-positive values keep
// the default.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithHandlerLogger sets the operational logger.
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// Handler serves mock endpoints over HTTP.
type Handler struct {
	dispatcher *Dispatcher
	prefix     string
	maxBody    int64
	log        *slog.Logger
}

// NewHandler creates a Handler that dispatches through d.
func NewHandler(d *Dispatcher, opts ...HandlerOption) *Handler {
	h := &Handler{
		dispatcher: d,
		prefix:     DefaultPrefix,
		maxBody:    DefaultMaxBodyBytes,
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.log.Warn("request body too large", "path", r.URL.Path, "limit", h.maxBody)
			httputil.WriteMessage(w, http.StatusRequestEntityTooLarge, MessageTooLarge)
			return
		}
		h.log.Warn("failed to read request body", "path", r.URL.Path, "error", err)
		httputil.WriteMessage(w, http.StatusBadRequest, MessageBadBody)
		return
	}

	req := Request{
		Method:  r.Method,
		Path:    h.stripPrefix(r.URL.Path),
		Headers: FlattenHeaders(r),
		Body:    ClassifyBody(r.Header.Get("Content-Type"), raw),
	}

	resp, err := h.dispatcher.Dispatch(req)
	switch {
	case errors.Is(err, ErrNoMatch):
		httputil.WriteMessage(w, http.StatusNotFound, MessageNoMatch)
		return
	case err != nil:
		h.log.Error("mock dispatch failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httputil.WriteMessage(w, http.StatusInternalServerError, MessageInternal)
		return
	}

	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp Response) {
	header := w.Header()
	for _, name := range slices.Sorted(maps.Keys(resp.Headers)) {
		header.Set(name, resp.Headers[name])
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = io.WriteString(w, resp.Body)
	}
}

// stripPrefix removes the mount prefix when it is a whole leading segment.
func (h *Handler) stripPrefix(p string) string {
	if h.prefix == "" {
		return p
	}
	rest, ok := strings.CutPrefix(p, h.prefix)
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return p
	}
	return rest
}
