package requestlog

import (
	"maps"
	"time"
)

// Entry is one dispatched request and the response it received.
type Entry struct {
	// ID is assigned when the entry is appended.
	ID string `json:"id" yaml:"id"`

	// EndpointID is the matched definition. It is a lookup key only.
	EndpointID string `json:"endpointId" yaml:"endpointId"`

	// Method is the upper-cased request method.
	Method string `json:"method" yaml:"method"`

	// Path is the normalized request path, relative to the mock prefix.
	Path string `json:"path" yaml:"path"`

	// Headers are the inbound request headers, keyed by lower-cased name.
	// Repeated headers are joined with ", ".
	Headers map[string]string `json:"headers" yaml:"headers"`

	// Body is the text rendering of the inbound request body.
	Body string `json:"body" yaml:"body"`

	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// ResponseStatus is the status code sent back.
	ResponseStatus int `json:"responseStatus" yaml:"responseStatus"`

	// ResponseTime is the milliseconds from receipt to response-ready,
	// including any artificial delay.
	ResponseTime int64 `json:"responseTime" yaml:"responseTime"`
}

func (e Entry) clone() Entry {
	if e.Headers == nil {
		e.Headers = map[string]string{}
	} else {
		e.Headers = maps.Clone(e.Headers)
	}
	return e
}
