// Package observability binds dialogue lifecycle hooks to Prometheus metrics
// and structured logs.
package observability
