package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/imagewatch/lineage-exporter/pkg/defaults"
	"github.com/imagewatch/lineage-exporter/pkg/exporter"
	"github.com/imagewatch/lineage-exporter/pkg/k8s/client"
	"github.com/imagewatch/lineage-exporter/pkg/logging"
	"github.com/imagewatch/lineage-exporter/pkg/serializer"
	"github.com/imagewatch/lineage-exporter/pkg/snapshot"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Run one collection cycle and print the result",
		Description: `Run a single correlation cycle against the cluster and print the
resulting lineage, route, and environment rows without starting the
server. Useful for inspection and debugging.

The result can be output in JSON, YAML, or table format.`,
		Flags: []cli.Flag{
			namespaceFlag,
			kubeconfigFlag,
			outputFlag,
			formatFlag,
			logLevelFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))

			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			clients, err := client.Build(cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			namespace := cmd.String("namespace")
			if namespace == "" {
				namespace = client.Namespace()
			}

			exp := exporter.New(clients, snapshot.NewPublisher(), time.Minute,
				namespace, defaults.MissingImageStreamName)

			snap, err := exp.Cycle(ctx)
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(snap)
		},
	}
}
