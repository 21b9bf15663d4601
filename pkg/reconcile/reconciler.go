package reconcile

import (
	"context"
	"log/slog"
	"strings"

	imagev1 "github.com/openshift/api/image/v1"
	imagev1client "github.com/openshift/client-go/image/clientset/versioned/typed/image/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/sets"

	apperrors "github.com/imagewatch/lineage-exporter/pkg/errors"
)

// Reconciler imports image references that were observed in the cluster
// but are absent from the image catalog. Each missing reference becomes a
// tag on a single well-known ImageStream in the exporter's own namespace,
// which makes the platform import the image metadata so the next cycles
// can catalog it.
type Reconciler struct {
	Client     imagev1client.ImageV1Interface
	Namespace  string
	StreamName string
}

// Reconcile upserts one tag per missing reference onto the tracking
// ImageStream, creating the stream on first use. Tags already present are
// left untouched, so repeated cycles with the same missing set converge
// without churn.
func (r *Reconciler) Reconcile(ctx context.Context, missing sets.Set[string]) error {
	if missing.Len() == 0 {
		return nil
	}

	stream, err := r.Client.ImageStreams(r.Namespace).Get(ctx, r.StreamName, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return r.create(ctx, missing)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to get image stream", err)
	}

	existing := sets.New[string]()
	for _, tag := range stream.Spec.Tags {
		existing.Insert(tag.Name)
	}

	added := 0
	for _, ref := range sets.List(missing) {
		tag := tagName(ref)
		if existing.Has(tag) {
			continue
		}
		stream.Spec.Tags = append(stream.Spec.Tags, tagReference(ref))
		existing.Insert(tag)
		added++
	}
	if added == 0 {
		return nil
	}

	if _, err := r.Client.ImageStreams(r.Namespace).Update(ctx, stream, metav1.UpdateOptions{}); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to update image stream", err)
	}
	slog.Info("imported missing image references", "stream", r.StreamName, "added", added)
	return nil
}

func (r *Reconciler) create(ctx context.Context, missing sets.Set[string]) error {
	stream := &imagev1.ImageStream{
		ObjectMeta: metav1.ObjectMeta{
			Namespace: r.Namespace,
			Name:      r.StreamName,
		},
	}
	for _, ref := range sets.List(missing) {
		stream.Spec.Tags = append(stream.Spec.Tags, tagReference(ref))
	}

	if _, err := r.Client.ImageStreams(r.Namespace).Create(ctx, stream, metav1.CreateOptions{}); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to create image stream", err)
	}
	slog.Info("created tracking image stream", "stream", r.StreamName, "tags", missing.Len())
	return nil
}

// tagReference builds the import tag for one missing reference. The
// source reference policy keeps the original pull location instead of
// rerouting pulls through the internal registry.
func tagReference(ref string) imagev1.TagReference {
	return imagev1.TagReference{
		Name: tagName(ref),
		From: &corev1.ObjectReference{
			Kind: "DockerImage",
			Name: ref,
		},
		ImportPolicy: imagev1.TagImportPolicy{
			Scheduled: true,
		},
		ReferencePolicy: imagev1.TagReferencePolicy{
			Type: imagev1.SourceTagReferencePolicy,
		},
	}
}

// tagName derives a stable tag identifier from a pull reference. Tag
// names cannot carry ':', '/', or '@', so the digest component is
// preferred and the separators are flattened.
func tagName(ref string) string {
	if _, digest, found := strings.Cut(ref, "@"); found {
		return flatten(digest)
	}
	return flatten(ref)
}

func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '@':
			return '-'
		}
		return r
	}, s)
}
