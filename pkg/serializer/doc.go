// Package serializer writes collected lineage rows to files or stdout in
// JSON, YAML, or table formats, and provides JSON response helpers for
// the HTTP surface.
package serializer
