// Package exporter ties the per-cycle building blocks into the periodic
// collection loop and owns the loop-level operational metrics.
package exporter
