package engine

import (
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

const formContentType = "application/x-www-form-urlencoded"

// canonicalJSON renders parsed bodies with sorted keys and no indentation so
// equal payloads produce equal log text.
var canonicalJSON = func() *ojg.Options {
	opts := ojg.DefaultOptions
	opts.Sort = true
	opts.Indent = 0
	opts.HTMLUnsafe = true
	return &opts
}()

// ClassifyBody returns the logged text of a request body. JSON and
// URL-encoded form bodies are parsed and rendered as canonical JSON; any
// other body, or one that fails to parse, is kept verbatim.
func ClassifyBody(contentType string, raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	text := string(raw)

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return text
	}

	switch {
	case isJSONMediaType(mediaType):
		v, err := oj.ParseString(text)
		if err != nil {
			return text
		}
		return oj.JSON(v, canonicalJSON)
	case mediaType == formContentType:
		values, err := url.ParseQuery(text)
		if err != nil {
			return text
		}
		return oj.JSON(formObject(values), canonicalJSON)
	default:
		return text
	}
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// formObject keeps single values as strings and repeated keys as arrays.
func formObject(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			out[key] = vals[0]
			continue
		}
		arr := make([]any, len(vals))
		for i, v := range vals {
			arr[i] = v
		}
		out[key] = arr
	}
	return out
}

// FlattenHeaders returns request headers keyed by lower-cased name with
// repeated values joined by ", ". The Host header, which net/http moves out
// of r.Header, is restored.
func FlattenHeaders(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.Header)+1)
	for name, values := range r.Header {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	if r.Host != "" {
		out["host"] = r.Host
	}
	return out
}
