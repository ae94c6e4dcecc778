package recognizer

import "strings"

// UnknownMarker is the literal the recognition tool emits when a detected
// face does not match any reference image.
const UnknownMarker = "unknown_person"

// NormalizeLabel converts a raw recognizer label into a tag name.
//
// Reference images may carry a trailing numeric disambiguator so several
// files can describe one person ("Alice1.jpg", "Alice2.jpg"). The maximal
// trailing run of ASCII digits is stripped so all of them collapse to the
// tag "Alice". If the stripped label equals the recognizer's unknown
// marker, the configured unknown tag name is substituted instead.
func NormalizeLabel(raw, unknownTag string) string {
	stripped := strings.TrimRight(raw, "0123456789")
	if stripped == UnknownMarker {
		return unknownTag
	}
	return stripped
}
