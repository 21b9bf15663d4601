// Package collector implements the per-cycle cluster traversals: the
// pod/container correlator that joins running containers against the
// image catalog through the lineage resolver, the one-hop owner
// resolver, and the independent route metadata collector.
package collector
