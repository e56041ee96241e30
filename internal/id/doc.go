// Package id provides unique identifier generation utilities.
//
// Two formats are used across waspceptor:
//
//   - UUID: random v4 identifiers for endpoint definitions, which are
//     referenced by users and must not leak ordering information
//   - Sortable: v7 identifiers for request log entries, which sort by the
//     time they were minted so that IDs alone preserve arrival order
//
// Both are backed by github.com/google/uuid.
package id
