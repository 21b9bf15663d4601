package cli

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/imagewatch/lineage-exporter/pkg/defaults"
	"github.com/imagewatch/lineage-exporter/pkg/exporter"
	"github.com/imagewatch/lineage-exporter/pkg/k8s/client"
	"github.com/imagewatch/lineage-exporter/pkg/logging"
	"github.com/imagewatch/lineage-exporter/pkg/server"
	"github.com/imagewatch/lineage-exporter/pkg/snapshot"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the collection loop and serve metrics",
		Description: `Run the exporter: collect image lineage from the cluster on a fixed
interval and expose the result on /metrics, with /health and /ready
probes. Readiness reports true after the first completed cycle.`,
		Flags: []cli.Flag{
			intervalFlag,
			namespaceFlag,
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP listen port",
				Sources: cli.EnvVars("PORT"),
			},
			kubeconfigFlag,
			logLevelFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Info("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
			)

			clients, err := client.Build(cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			namespace := cmd.String("namespace")
			if namespace == "" {
				namespace = client.Namespace()
			}

			publisher := snapshot.NewPublisher()
			prometheus.MustRegister(publisher)

			exp := exporter.New(clients, publisher, cmd.Duration("interval"),
				namespace, defaults.MissingImageStreamName)

			cfg := server.NewConfig()
			cfg.Name = name
			cfg.Version = version
			cfg.Ready = exp.Ready
			if port := cmd.Int("port"); port != 0 {
				cfg.Port = int(port)
			}
			srv := server.New(cfg)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Start(gctx) })
			g.Go(func() error { return exp.Run(gctx) })

			if err := g.Wait(); err != nil {
				slog.Error("exporter exited with error", "error", err)
				return err
			}

			slog.Info("stopped gracefully")
			return nil
		},
	}
}
