package snapshot

import "time"

// RowType distinguishes the two lineage rows emitted per running container.
type RowType string

const (
	// RowTypeContainerImage tags the row describing the image the
	// container actually runs.
	RowTypeContainerImage RowType = "container_image"
	// RowTypeParentImage tags the row describing the resolved base image.
	RowTypeParentImage RowType = "parent_image"
)

// UnknownImage is the placeholder emitted when a parent image cannot be
// resolved from the cluster catalog.
const UnknownImage = "<unknown>"

// ImageRow is one lineage observation pairing a running container with
// either its own image or its resolved base image. Two rows share the
// same namespace/pod-container/owner-container labels so they can be
// joined downstream.
type ImageRow struct {
	Namespace      string  `json:"namespace" yaml:"namespace"`
	PodContainer   string  `json:"pod_container" yaml:"pod_container"`
	Type           RowType `json:"type" yaml:"type"`
	Image          string  `json:"image" yaml:"image"`
	OwnerContainer string  `json:"owner_container" yaml:"owner_container"`
	Repo           string  `json:"repo" yaml:"repo"`
	// CreatedUnix is the image creation time in seconds since the epoch,
	// or 0 when the image is not cataloged.
	CreatedUnix float64 `json:"created" yaml:"created"`
}

// RouteRow is one informational observation about an externally exposed
// route. Fields holds additional per-annotation labels, already prefixed
// and sanitized by the collector.
type RouteRow struct {
	Namespace               string            `json:"namespace" yaml:"namespace"`
	Name                    string            `json:"name" yaml:"name"`
	Host                    string            `json:"host" yaml:"host"`
	Service                 string            `json:"service" yaml:"service"`
	TLSTermination          string            `json:"tls_termination" yaml:"tls_termination"`
	InsecureEdgeTermination string            `json:"insecure_edge_termination" yaml:"insecure_edge_termination"`
	IPWhitelist             string            `json:"ip_whitelist" yaml:"ip_whitelist"`
	Fields                  map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// EnvRow is one informational observation about a container's declared
// environment. Vars maps prefixed, sanitized variable names to rendered
// values; indirectly sourced variables carry a source descriptor instead
// of the actual value.
type EnvRow struct {
	Namespace      string            `json:"namespace" yaml:"namespace"`
	PodContainer   string            `json:"pod_container" yaml:"pod_container"`
	OwnerContainer string            `json:"owner_container" yaml:"owner_container"`
	Vars           map[string]string `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Snapshot holds the three row families produced by one completed
// correlation cycle. A snapshot is immutable once published.
type Snapshot struct {
	Images      []ImageRow `json:"images" yaml:"images"`
	Routes      []RouteRow `json:"routes" yaml:"routes"`
	Envs        []EnvRow   `json:"envs" yaml:"envs"`
	CollectedAt time.Time  `json:"collected_at" yaml:"collected_at"`
}
