package endpoint

import "strings"

// NormalizePath returns the canonical form of a route used for equality
// comparisons:
//
//  1. an empty (or blank) path becomes "/"
//  2. a leading "/" is added when missing
//  3. exactly one trailing "/" is removed, unless the path is "/"
//
// The result is stable under repeated application except for paths ending in
// more than one "/": "/users//" becomes "/users/" and then "/users".
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// NormalizeMethod upper-cases and trims a method name.
func NormalizeMethod(m string) string {
	return strings.ToUpper(strings.TrimSpace(m))
}
