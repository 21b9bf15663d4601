// Package server provides the HTTP surface of the exporter: the
// prometheus scrape endpoint and the health and readiness probes, with
// request-id, rate-limiting, panic-recovery, and instrumentation
// middleware.
package server
