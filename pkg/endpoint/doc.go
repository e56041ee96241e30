// Package endpoint defines mock endpoint definitions: the user-authored rules
// mapping an HTTP method and path to a canned response.
//
// Definitions are created from a Draft, modified with a Patch and validated
// before they reach the registry. Paths are stored in normalized form; see
// NormalizePath for the exact rules used both here and by the dispatcher.
//
// This is a leaf package with no internal dependencies.
package endpoint
