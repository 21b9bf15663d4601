package lineage

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/imagewatch/lineage-exporter/pkg/catalog"
)

// Resolver finds the base image of a cataloged image using build
// provenance when available and layer-prefix inference otherwise.
// A resolver is built fresh per cycle over that cycle's indices and
// accumulates base references that provenance declared but the catalog
// does not hold.
type Resolver struct {
	catalog      *catalog.ImageIndex
	provenance   catalog.ProvenanceIndex
	missingBases sets.Set[string]
}

// NewResolver creates a resolver over the given cycle indices.
func NewResolver(ix *catalog.ImageIndex, provenance catalog.ProvenanceIndex) *Resolver {
	return &Resolver{
		catalog:      ix,
		provenance:   provenance,
		missingBases: sets.New[string](),
	}
}

// Resolve returns the base image record for the given digest, or nil when
// no ancestor can be determined.
//
// Build provenance wins when present: the declared base is exact and a
// single map probe. When the declared base is not cataloged, its full
// reference is recorded as missing and resolution falls back to
// layer-prefix inference over the original image's own layers. The
// fallback finds the cataloged image sharing the longest proper prefix of
// the layer stack; it can only see ancestors that are themselves
// cataloged with an exactly matching prefix, so it is an approximation.
// Note the fallback deliberately keeps probing with the original image's
// layers rather than retrying against the declared base reference, which
// can under-resolve when the base is reachable by reference only.
func (r *Resolver) Resolve(digest string) *catalog.ImageRecord {
	if baseRef, ok := r.provenance.Base(digest); ok {
		if baseDigest := digestOf(baseRef); baseDigest != "" {
			if rec, found := r.catalog.ByDigest(baseDigest); found {
				return rec
			}
		}
		r.missingBases.Insert(baseRef)
	}

	rec, ok := r.catalog.ByDigest(digest)
	if !ok {
		return nil
	}

	layers := rec.Layers
	for len(layers) > 0 {
		layers = layers[:len(layers)-1]
		if base, found := r.catalog.ByLayerSequence(layers); found {
			return base
		}
	}
	return nil
}

// MissingBases returns the base references declared by provenance but
// absent from the catalog, accumulated across all Resolve calls.
func (r *Resolver) MissingBases() sets.Set[string] {
	return r.missingBases
}

// digestOf extracts the digest component of a digest-qualified pull
// reference, or returns the empty string when the reference has none.
func digestOf(ref string) string {
	_, digest, found := strings.Cut(ref, "@")
	if !found {
		return ""
	}
	return digest
}
