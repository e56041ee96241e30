// Package engine matches inbound mock requests against the endpoint registry
// and synthesizes their responses.
//
// The Dispatcher is transport independent: it receives a normalized Request
// and returns a Response or one of the sentinel errors ErrNoMatch and
// ErrInternal. Handler adapts it to net/http, reading and classifying the
// request body and writing the synthesized response.
//
// A matched request is delayed on its own goroutine only, then recorded in
// the request log if its endpoint still exists at that moment.
package engine
