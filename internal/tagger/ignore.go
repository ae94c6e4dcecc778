package tagger

import "strings"

// isIgnored reports whether any of the photo's existing tag names
// contains any configured ignore fragment as a literal substring. An
// empty ignore list never ignores anything.
//
// Tag state is always the state before this run applied anything, so a
// run can never trigger its own ignore rules. Tags applied by a previous
// run do participate, which matches the long-standing behavior.
func isIgnored(tags, ignoreSubstrings []string) bool {
	for _, tag := range tags {
		for _, substr := range ignoreSubstrings {
			if substr == "" {
				continue
			}
			if strings.Contains(tag, substr) {
				return true
			}
		}
	}
	return false
}
