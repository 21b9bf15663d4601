package collector

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/distribution/reference"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/client-go/kubernetes"

	"github.com/imagewatch/lineage-exporter/pkg/catalog"
	apperrors "github.com/imagewatch/lineage-exporter/pkg/errors"
	"github.com/imagewatch/lineage-exporter/pkg/lineage"
	"github.com/imagewatch/lineage-exporter/pkg/snapshot"
)

// runtimeIDScheme prefixes runtime image identifiers reported by the
// container runtime, e.g. "docker-pullable://repo@sha256:...".
const runtimeIDScheme = "//"

// PodCollector correlates running containers with the image catalog and
// accumulates lineage rows, environment rows, and the set of image
// references missing from the catalog.
type PodCollector struct {
	Client kubernetes.Interface
}

// Result is the output of one pod correlation pass.
type Result struct {
	Images  []snapshot.ImageRow
	Envs    []snapshot.EnvRow
	Missing sets.Set[string]
}

// Collect iterates all running workload instances and joins their
// container runtime images against the catalog through the lineage
// resolver. Each started container yields exactly two lineage rows: one
// for the image it runs and one for its resolved parent image.
func (c *PodCollector) Collect(ctx context.Context, ix *catalog.ImageIndex, provenance catalog.ProvenanceIndex) (*Result, error) {
	pods, err := c.Client.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to list pods", err)
	}

	resolver := lineage.NewResolver(ix, provenance)
	res := &Result{Missing: sets.New[string]()}
	containerCount := 0

	for i := range pods.Items {
		pod := &pods.Items[i]
		if pod.Status.Phase != corev1.PodRunning || pod.DeletionTimestamp != nil {
			continue
		}

		owner := c.resolveOwner(ctx, pod)

		for _, container := range pod.Spec.Containers {
			if len(container.Env) == 0 {
				continue
			}
			res.Envs = append(res.Envs, envRow(pod, &container, owner))
		}

		for _, status := range pod.Status.ContainerStatuses {
			full, repo, digest, ok := parseImageID(status.ImageID)
			if !ok {
				// No usable runtime identifier yet: the container has
				// not started.
				continue
			}

			podContainer := pod.Name + "/" + status.Name
			ownerContainer := ownerContainerLabel(owner, podContainer, status.Name)

			rec, cataloged := ix.ByDigest(digest)
			var created float64
			if cataloged {
				created = unixTimestamp(rec.CreatedAt)
			} else {
				res.Missing.Insert(full)
			}

			res.Images = append(res.Images, snapshot.ImageRow{
				Namespace:      pod.Namespace,
				PodContainer:   podContainer,
				Type:           snapshot.RowTypeContainerImage,
				Image:          full,
				OwnerContainer: ownerContainer,
				Repo:           repo,
				CreatedUnix:    created,
			})

			parentImage := snapshot.UnknownImage
			parentRepo := snapshot.UnknownImage
			var parentCreated float64
			if cataloged {
				if base := resolver.Resolve(digest); base != nil {
					parentImage = base.Reference
					parentRepo = repoOf(base.Reference)
					parentCreated = unixTimestamp(base.CreatedAt)
				}
			}

			res.Images = append(res.Images, snapshot.ImageRow{
				Namespace:      pod.Namespace,
				PodContainer:   podContainer,
				Type:           snapshot.RowTypeParentImage,
				Image:          parentImage,
				OwnerContainer: ownerContainer,
				Repo:           parentRepo,
				CreatedUnix:    parentCreated,
			})
			containerCount++
		}
	}

	res.Missing = res.Missing.Union(resolver.MissingBases())

	slog.Info("correlated running containers",
		"containers", containerCount,
		"env_rows", len(res.Envs),
		"missing_images", res.Missing.Len(),
	)
	return res, nil
}

// parseImageID splits a runtime image identifier of the form
// "docker-pullable://repo@digest" into the full pull reference, the
// repository, and the digest. Identifiers without a scheme or without a
// valid digest-qualified reference report ok=false and are skipped.
func parseImageID(imageID string) (full, repo, digest string, ok bool) {
	_, name, found := strings.Cut(imageID, runtimeIDScheme)
	if !found || name == "" {
		return "", "", "", false
	}

	parsed, err := reference.Parse(name)
	if err != nil {
		return "", "", "", false
	}
	canonical, isCanonical := parsed.(reference.Canonical)
	if !isCanonical {
		return "", "", "", false
	}

	return name, canonical.Name(), canonical.Digest().String(), true
}

// repoOf strips the digest component from a pull reference.
func repoOf(ref string) string {
	repo, _, found := strings.Cut(ref, "@")
	if !found {
		return ref
	}
	return repo
}

// ownerContainerLabel renders the owner_container label, falling back to
// the pod-scoped value when the pod has no owner.
func ownerContainerLabel(owner, podContainer, containerName string) string {
	if owner == "" {
		return podContainer
	}
	return owner + "/" + containerName
}

func unixTimestamp(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.Unix())
}
