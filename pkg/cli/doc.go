// Package cli implements the command-line interface for the lineaged
// exporter.
//
// # Commands
//
// serve - Run the exporter:
//
//	lineaged serve [--interval 5m] [--port 8080] [--namespace NS]
//
// Collects image lineage from the cluster on a fixed interval and
// exposes the result on /metrics, with /health and /ready probes.
//
// collect - One-shot collection:
//
//	lineaged collect [--output FILE] [--format yaml|json|table]
//
// Runs a single correlation cycle and prints the resulting rows without
// starting the server. Output defaults to stdout in YAML format.
//
// # Environment Variables
//
//	IMAGE_METRICS_INTERVAL  Interval between collection cycles
//	POD_NAMESPACE           Namespace for the missing-image stream
//	PORT                    HTTP listen port
//	KUBECONFIG              Path to kubeconfig file
//	LOG_LEVEL               Logging verbosity (debug, info, warn, error)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/imagewatch/lineage-exporter/pkg/cli.version=1.0.0'"
package cli
