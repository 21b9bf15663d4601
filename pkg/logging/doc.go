// Package logging provides structured logging utilities shared by the
// lineage exporter components.
//
// It wraps the standard library slog package with project defaults:
// JSON output to stderr, module/version context on every record,
// LOG_LEVEL environment based level selection, and source location
// tracking when running at debug level.
//
// Typical usage:
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("lineaged", version)
//
//	    slog.Info("starting collection cycle", "interval", interval)
//	    slog.Error("cycle failed", "error", err)
//	}
//
// Supported levels (case-insensitive): DEBUG, INFO (default), WARN,
// WARNING, ERROR.
package logging
