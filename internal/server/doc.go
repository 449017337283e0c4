// Package server holds the shared runtime of the MCP server: the
// ServerContext tying the Tool Store client and lifecycle together, the
// Prometheus metrics collectors with their dedicated metrics endpoint, and
// the health probes used by the HTTP transport.
//
// The ServerContext does not cache People API clients. Access tokens are
// short-lived, so every tool call resolves a client through
// PeopleClient, which returns the stored token while it is valid and
// refreshes it otherwise.
package server
