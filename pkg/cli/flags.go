package cli

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/imagewatch/lineage-exporter/pkg/defaults"
	"github.com/imagewatch/lineage-exporter/pkg/serializer"
)

var (
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars("LOG_LEVEL"),
		Value:   "info",
	}

	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Usage:   "Path to kubeconfig file (defaults to in-cluster or ~/.kube/config)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}

	namespaceFlag = &cli.StringFlag{
		Name:    "namespace",
		Usage:   "Namespace for the missing-image tracking stream (defaults to the running namespace)",
		Sources: cli.EnvVars("POD_NAMESPACE"),
	}

	intervalFlag = &cli.DurationFlag{
		Name:    "interval",
		Usage:   "Interval between collection cycles",
		Sources: cli.EnvVars("IMAGE_METRICS_INTERVAL"),
		Value:   defaults.CollectionInterval,
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   "Output format: " + strings.Join(serializer.SupportedFormats(), ", "),
		Value:   string(serializer.FormatYAML),
	}
)
