// Package cli implements the waspceptor command line.
//
// "waspceptor serve" runs the mock server. Every other command is a client
// of a running server's admin API, addressed by --admin-url, the
// WASPCEPTOR_ADMIN_URL environment variable, or the adminUrl config key.
package cli
