// Package snapshot defines the metric row families produced by a
// correlation cycle and the publisher that swaps them atomically for
// concurrent scrapes.
package snapshot
