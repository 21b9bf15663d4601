package collector

import "regexp"

var labelUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// sanitizeLabelName rewrites an arbitrary identifier into a valid metric
// label name fragment. Callers prepend a fixed prefix, so a leading digit
// in the fragment is acceptable.
func sanitizeLabelName(name string) string {
	return labelUnsafe.ReplaceAllString(name, "_")
}
