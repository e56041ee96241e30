// Package metrics exposes Prometheus collectors for the mock server.
//
// All collectors live in a private registry owned by a Metrics value, so
// tests and multiple servers in one process never collide:
//
//   - waspceptor_mock_requests_total: matched mock requests (labels: method, status)
//   - waspceptor_mock_request_duration_seconds: response time including delay (labels: method)
//   - waspceptor_mock_misses_total: requests with no matching endpoint (labels: method)
//   - waspceptor_admin_requests_total: admin API requests (labels: method, route, status)
//   - waspceptor_endpoints_total, waspceptor_endpoints_active: registry size
//   - waspceptor_request_log_entries: current request log size
//
// Go runtime and process collectors are registered alongside.
package metrics
