// Package reconcile feeds image references missing from the catalog back
// into the platform by tagging them onto a tracking ImageStream, so later
// cycles can resolve lineage for them.
package reconcile
