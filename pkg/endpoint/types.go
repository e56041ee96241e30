package endpoint

import (
	"maps"
	"time"
)

// HTTP methods a definition may match.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
	MethodPatch  = "PATCH"
)

// Content types a definition may respond with.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
	ContentTypeXML  = "application/xml"
	ContentTypeHTML = "text/html"
)

// Defaults applied to optional draft fields.
const (
	DefaultStatusCode  = 200
	DefaultContentType = ContentTypeJSON
)

// Methods lists the supported methods in display order.
var Methods = []string{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch}

// ContentTypes lists the supported response content types.
var ContentTypes = []string{ContentTypeJSON, ContentTypeText, ContentTypeXML, ContentTypeHTML}

// Definition is a stored mock endpoint.
type Definition struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id" yaml:"id"`

	// Name is the display label.
	Name string `json:"name" yaml:"name"`

	// Method is the upper-cased HTTP method to match.
	Method string `json:"method" yaml:"method"`

	// Path is the normalized route to match (without the mock prefix).
	Path string `json:"path" yaml:"path"`

	// StatusCode is the response status.
	StatusCode int `json:"statusCode" yaml:"statusCode"`

	// Headers are applied verbatim to the response before Content-Type.
	Headers map[string]string `json:"headers" yaml:"headers"`

	// ResponseBody is written verbatim. No templating is performed.
	ResponseBody string `json:"responseBody" yaml:"responseBody"`

	// ContentType overrides any Content-Type entry in Headers.
	ContentType string `json:"contentType" yaml:"contentType"`

	// DelayMs is the artificial latency applied before responding.
	DelayMs int `json:"delayMs" yaml:"delayMs"`

	// IsActive controls whether the dispatcher can match this definition.
	IsActive bool `json:"isActive" yaml:"isActive"`

	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Clone returns a copy that shares no mutable state with d.
func (d Definition) Clone() Definition {
	d.Headers = cloneHeaders(d.Headers)
	return d
}

// Delay returns DelayMs as a duration.
func (d Definition) Delay() time.Duration {
	return time.Duration(d.DelayMs) * time.Millisecond
}

// Matches reports whether the definition serves the given upper-cased method
// and normalized path. Inactive definitions never match.
func (d Definition) Matches(method, path string) bool {
	return d.IsActive && d.Method == method && d.Path == path
}

func cloneHeaders(h map[string]string) map[string]string {
	if h == nil {
		return map[string]string{}
	}
	return maps.Clone(h)
}
