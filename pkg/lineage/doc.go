// Package lineage resolves the base image of a running container's image
// from the per-cycle catalog and provenance indices.
package lineage
