package catalog

import (
	"context"
	"log/slog"
	"strings"

	buildv1 "github.com/openshift/api/build/v1"
	buildv1client "github.com/openshift/client-go/build/clientset/versioned/typed/build/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	apperrors "github.com/imagewatch/lineage-exporter/pkg/errors"
)

// ProvenanceIndex maps a produced image digest to the digest-qualified
// base image reference its build declared. Rebuilt fresh every cycle.
type ProvenanceIndex map[string]string

// BuildProvenanceIndex fetches all build records and indexes the declared
// base image of every completed build. Builds without a declared base or
// without an output digest are expected steady-state noise and are
// skipped silently.
func BuildProvenanceIndex(ctx context.Context, client buildv1client.BuildV1Interface) (ProvenanceIndex, error) {
	list, err := client.Builds(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to list builds", err)
	}

	idx := make(ProvenanceIndex)
	for i := range list.Items {
		build := &list.Items[i]

		base := declaredBase(build)
		if base == "" || !strings.Contains(base, "@") {
			continue
		}
		output := outputDigest(build)
		if output == "" {
			continue
		}
		idx[output] = base
	}

	slog.Debug("indexed build provenance", "builds", len(list.Items), "indexed", len(idx))
	return idx, nil
}

// Base returns the declared base reference for the given output digest.
func (p ProvenanceIndex) Base(digest string) (string, bool) {
	base, ok := p[digest]
	return base, ok
}

// declaredBase reads the base image reference from whichever of the two
// build strategy shapes is present.
func declaredBase(build *buildv1.Build) string {
	strategy := build.Spec.Strategy
	if strategy.DockerStrategy != nil && strategy.DockerStrategy.From != nil {
		return strategy.DockerStrategy.From.Name
	}
	if strategy.SourceStrategy != nil {
		return strategy.SourceStrategy.From.Name
	}
	return ""
}

// outputDigest reads the digest of the image the build produced, if the
// build completed far enough to record one.
func outputDigest(build *buildv1.Build) string {
	if build.Status.Output.To == nil {
		return ""
	}
	return build.Status.Output.To.ImageDigest
}
