package exporter

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/imagewatch/lineage-exporter/pkg/catalog"
	"github.com/imagewatch/lineage-exporter/pkg/collector"
	"github.com/imagewatch/lineage-exporter/pkg/k8s/client"
	"github.com/imagewatch/lineage-exporter/pkg/reconcile"
	"github.com/imagewatch/lineage-exporter/pkg/snapshot"
)

var (
	cycleCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineage_collection_cycles_total",
		Help: "Total number of collection cycles by outcome.",
	}, []string{"status"})

	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lineage_collection_duration_seconds",
		Help:    "Wall-clock duration of collection cycles.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	missingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lineage_missing_images",
		Help: "Image references observed in the last cycle but absent from the cluster catalog.",
	})
)

// Exporter drives the collection loop: it rebuilds the cycle indices,
// correlates running containers, feeds missing references to the
// reconciler, and publishes the resulting snapshot. Cycles run strictly
// sequentially; a failed cycle is logged and the previously published
// snapshot stays in place.
type Exporter struct {
	clients    *client.Clients
	publisher  *snapshot.Publisher
	pods       *collector.PodCollector
	routes     *collector.RouteCollector
	reconciler *reconcile.Reconciler
	interval   time.Duration
	ready      atomic.Bool
}

// New creates an exporter publishing into the given publisher. The
// namespace and streamName scope the missing-image tracking stream.
func New(clients *client.Clients, publisher *snapshot.Publisher, interval time.Duration, namespace, streamName string) *Exporter {
	return &Exporter{
		clients:   clients,
		publisher: publisher,
		pods:      &collector.PodCollector{Client: clients.Core},
		routes:    &collector.RouteCollector{Client: clients.Route},
		reconciler: &reconcile.Reconciler{
			Client:     clients.Image,
			Namespace:  namespace,
			StreamName: streamName,
		},
		interval: interval,
	}
}

// Ready reports whether at least one cycle has completed successfully.
func (e *Exporter) Ready() bool {
	return e.ready.Load()
}

// Run executes cycles on the configured interval until the context is
// canceled. The first cycle starts immediately. Cycle failures do not
// stop the loop.
func (e *Exporter) Run(ctx context.Context) error {
	slog.Info("starting collection loop", "interval", e.interval)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		e.runOnce(ctx)

		select {
		case <-ctx.Done():
			slog.Info("collection loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (e *Exporter) runOnce(ctx context.Context) {
	start := time.Now()
	snap, err := e.Cycle(ctx)
	cycleDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		cycleCounter.WithLabelValues("error").Inc()
		slog.Error("collection cycle failed", "error", err, "duration", time.Since(start))
		return
	}

	cycleCounter.WithLabelValues("success").Inc()
	e.publisher.Publish(snap)
	e.ready.Store(true)
	slog.Info("collection cycle complete",
		"images", len(snap.Images),
		"routes", len(snap.Routes),
		"envs", len(snap.Envs),
		"duration", time.Since(start),
	)
}

// Cycle runs one full collection pass and returns the snapshot it would
// publish. A reconciliation failure is logged but does not fail the
// cycle, since the snapshot itself is unaffected by it.
func (e *Exporter) Cycle(ctx context.Context) (*snapshot.Snapshot, error) {
	ix, err := catalog.BuildImageIndex(ctx, e.clients.Image)
	if err != nil {
		return nil, err
	}
	provenance, err := catalog.BuildProvenanceIndex(ctx, e.clients.Build)
	if err != nil {
		return nil, err
	}

	res, err := e.pods.Collect(ctx, ix, provenance)
	if err != nil {
		return nil, err
	}

	missingGauge.Set(float64(res.Missing.Len()))
	if err := e.reconciler.Reconcile(ctx, res.Missing); err != nil {
		slog.Error("missing-image reconciliation failed", "error", err)
	}

	routes, err := e.routes.Collect(ctx)
	if err != nil {
		return nil, err
	}

	return &snapshot.Snapshot{
		Images:      res.Images,
		Routes:      routes,
		Envs:        res.Envs,
		CollectedAt: time.Now().UTC(),
	}, nil
}
