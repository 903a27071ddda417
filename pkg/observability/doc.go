/*
Package observability provides tools for monitoring simulation runs.

It turns the engine's lifecycle hooks into Prometheus metrics and structured
log lines, and exposes a scrape handler for the HTTP adapter.
*/
package observability
