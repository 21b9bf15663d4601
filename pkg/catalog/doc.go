// Package catalog builds the per-cycle lookup structures over the
// cluster image catalog and its build provenance records.
//
// The image index makes every cataloged image reachable by digest and,
// when the image declares layers, by the exact ordered layer sequence --
// two keys sharing one immutable record. The provenance index maps a
// built image's digest to the base reference its build declared. Both
// are rebuilt wholesale every cycle; nothing survives across cycles.
package catalog
