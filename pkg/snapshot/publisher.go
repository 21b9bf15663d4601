package snapshot

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var imageDesc = prometheus.NewDesc(
	"container_image_creation_timestamp",
	"Creation timestamp of the image or resolved parent image of a running container.",
	[]string{"namespace", "pod_container", "type", "image", "owner_container", "repo"},
	nil,
)

const (
	routeMetricName = "openshift_route"
	routeMetricHelp = "Information about an externally exposed route."
	envMetricName   = "openshift_pod_env"
	envMetricHelp   = "Declared environment variables of a running container."
)

var (
	routeBaseLabels = []string{
		"namespace", "name", "host", "service",
		"tls_termination", "insecure_edge_termination", "ip_whitelist",
	}
	envBaseLabels = []string{"namespace", "pod_container", "owner_container"}
)

// Publisher holds the most recent complete snapshot and exposes it as a
// prometheus.Collector. Publish replaces the whole snapshot under one
// lock so a concurrent scrape observes either the fully-previous or the
// fully-next cycle, never a mix of families. Before the first publish the
// collector emits nothing.
type Publisher struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewPublisher creates an empty publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish atomically replaces the current snapshot.
func (p *Publisher) Publish(s *Snapshot) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
}

// Current returns the last published snapshot, or nil before the first
// successful cycle. The returned snapshot must be treated as read-only.
func (p *Publisher) Current() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Describe implements prometheus.Collector. It intentionally sends no
// descriptors: the route and env families carry per-row dynamic labels,
// which makes this an unchecked collector.
func (p *Publisher) Describe(_ chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector. It reads the current snapshot
// reference once and renders rows from it without re-entering the
// collection pipeline.
func (p *Publisher) Collect(ch chan<- prometheus.Metric) {
	snap := p.Current()
	if snap == nil {
		return
	}

	for _, row := range snap.Images {
		ch <- prometheus.MustNewConstMetric(
			imageDesc,
			prometheus.GaugeValue,
			row.CreatedUnix,
			row.Namespace,
			row.PodContainer,
			string(row.Type),
			row.Image,
			row.OwnerContainer,
			row.Repo,
		)
	}

	for _, row := range snap.Routes {
		names, values := withDynamicLabels(
			routeBaseLabels,
			[]string{
				row.Namespace, row.Name, row.Host, row.Service,
				row.TLSTermination, row.InsecureEdgeTermination, row.IPWhitelist,
			},
			row.Fields,
		)
		desc := prometheus.NewDesc(routeMetricName, routeMetricHelp, names, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, 1, values...)
	}

	for _, row := range snap.Envs {
		names, values := withDynamicLabels(
			envBaseLabels,
			[]string{row.Namespace, row.PodContainer, row.OwnerContainer},
			row.Vars,
		)
		desc := prometheus.NewDesc(envMetricName, envMetricHelp, names, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, 1, values...)
	}
}

// withDynamicLabels appends the dynamic fields to the base label set in
// sorted key order so the label arrangement is deterministic per row.
func withDynamicLabels(base, baseValues []string, fields map[string]string) ([]string, []string) {
	names := make([]string, len(base), len(base)+len(fields))
	copy(names, base)
	values := make([]string, len(baseValues), len(baseValues)+len(fields))
	copy(values, baseValues)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		names = append(names, k)
		values = append(values, fields[k])
	}
	return names, values
}
