// Package registry holds the ordered, in-memory set of mock endpoint
// definitions.
//
// The registry is the single writer for definitions. Reads return copies so
// callers can never mutate stored state. Deleting a definition cascades to
// the request log while the registry write lock is held, which together with
// WithEndpoint guarantees that no log entry for a deleted endpoint can appear
// after Delete returns.
package registry
