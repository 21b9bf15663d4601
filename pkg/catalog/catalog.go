package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/openshift/api/image/docker10"
	imagev1 "github.com/openshift/api/image/v1"
	imagev1client "github.com/openshift/client-go/image/clientset/versioned/typed/image/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	apperrors "github.com/imagewatch/lineage-exporter/pkg/errors"
)

// ImageRecord is one cataloged image. Records are immutable once the
// index is built; both index keys point at the same record.
type ImageRecord struct {
	// Digest is the content-addressed image identifier (object name).
	Digest string
	// Reference is the human-readable pull name.
	Reference string
	// CreatedAt is the image build time from its docker metadata, or the
	// zero time when the metadata does not carry one.
	CreatedAt time.Time
	// Layers is the ordered layer identifier sequence, possibly empty.
	Layers []string
}

// ImageIndex holds the full image catalog of one cycle, reachable by
// digest and, for images that declare layers, by the exact ordered layer
// sequence. It is rebuilt wholesale every cycle and never mutated after
// construction.
type ImageIndex struct {
	byDigest map[string]*ImageRecord
	byLayers map[string]*ImageRecord
}

// BuildImageIndex fetches the current image catalog and indexes it.
// A fetch failure aborts the whole cycle; partial catalogs are never used.
func BuildImageIndex(ctx context.Context, client imagev1client.ImageV1Interface) (*ImageIndex, error) {
	list, err := client.Images().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to list images", err)
	}

	ix := &ImageIndex{
		byDigest: make(map[string]*ImageRecord, len(list.Items)),
		byLayers: make(map[string]*ImageRecord, len(list.Items)),
	}
	for i := range list.Items {
		img := &list.Items[i]
		rec := &ImageRecord{
			Digest:    img.Name,
			Reference: img.DockerImageReference,
			CreatedAt: imageCreated(img),
			Layers:    layerNames(img),
		}
		ix.byDigest[rec.Digest] = rec
		if len(rec.Layers) > 0 {
			ix.byLayers[layerKey(rec.Layers)] = rec
		}
	}

	slog.Debug("indexed image catalog", "images", len(ix.byDigest), "layer_sequences", len(ix.byLayers))
	return ix, nil
}

// ByDigest returns the record for the given digest.
func (ix *ImageIndex) ByDigest(digest string) (*ImageRecord, bool) {
	rec, ok := ix.byDigest[digest]
	return rec, ok
}

// ByLayerSequence returns the record whose layer sequence exactly matches
// the given ordered sequence.
func (ix *ImageIndex) ByLayerSequence(layers []string) (*ImageRecord, bool) {
	rec, ok := ix.byLayers[layerKey(layers)]
	return rec, ok
}

// Len returns the number of cataloged images.
func (ix *ImageIndex) Len() int {
	return len(ix.byDigest)
}

// layerKey encodes an ordered layer sequence as a single map key. Layer
// identifiers are content digests and never contain newlines.
func layerKey(layers []string) string {
	return strings.Join(layers, "\n")
}

func layerNames(img *imagev1.Image) []string {
	if len(img.DockerImageLayers) == 0 {
		return nil
	}
	layers := make([]string, len(img.DockerImageLayers))
	for i, layer := range img.DockerImageLayers {
		layers[i] = layer.Name
	}
	return layers
}

// imageCreated extracts the docker metadata creation time. The metadata
// arrives as a raw extension; depending on the decoder it may already be
// a typed object. Images without a creation time are expected steady
// state and yield the zero time.
func imageCreated(img *imagev1.Image) time.Time {
	if meta, ok := img.DockerImageMetadata.Object.(*docker10.DockerImage); ok && meta != nil {
		return meta.Created.Time
	}
	if len(img.DockerImageMetadata.Raw) > 0 {
		var meta docker10.DockerImage
		if err := json.Unmarshal(img.DockerImageMetadata.Raw, &meta); err == nil {
			return meta.Created.Time
		}
		slog.Debug("undecodable image metadata", "image", img.Name)
	}
	return time.Time{}
}
