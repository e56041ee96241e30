// Package server assembles the waspceptor HTTP server.
//
// One listener serves every surface:
//
//	GET  /health     liveness, {"ok":true}
//	GET  /metrics    Prometheus exposition
//	     /admin/...  endpoint and request-log management (package admin)
//	     /api/...    mock traffic (package engine)
//
// The server owns the endpoint registry and the request log, and wires the
// log as the registry's cascade target so deleting an endpoint drops its
// entries.
package server
