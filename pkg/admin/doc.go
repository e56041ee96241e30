// Package admin provides the REST API for managing mock endpoints and
// inspecting the request log at runtime.
//
// Endpoints (mounted under /admin):
//
//	GET    /endpoints             - List endpoints in creation order
//	POST   /endpoints             - Create an endpoint (201)
//	GET    /endpoints/{id}        - Get an endpoint
//	PUT    /endpoints/{id}        - Merge the provided fields into an endpoint
//	PATCH  /endpoints/{id}        - Same as PUT
//	POST   /endpoints/{id}/toggle - Flip isActive, or set it from {"isActive": bool}
//	DELETE /endpoints/{id}        - Delete an endpoint and its request log entries (204)
//	GET    /logs?limit=N          - Newest log entries first (default 200)
//	GET    /logs/{id}             - Get a log entry
//	DELETE /logs                  - Clear the request log (204)
//	GET    /stats                 - Dashboard counters
//	GET    /export?format=json    - Download a snapshot
//	POST   /import                - Recreate endpoints from a snapshot
//
// Example:
//
//	curl -X POST http://localhost:3000/admin/endpoints \
//	  -H "Content-Type: application/json" \
//	  -d '{"name":"Users","method":"GET","path":"/users","responseBody":"[]"}'
package admin
