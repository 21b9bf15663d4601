package defaults

import "time"

// Collection cycle settings.
const (
	// CollectionInterval is the default wall-clock interval between
	// correlation cycles.
	CollectionInterval = 5 * time.Minute

	// MissingImageStreamName is the fixed name of the image stream that
	// accumulates import tags for images missing from the cluster catalog.
	MissingImageStreamName = "missing-base-images"
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
