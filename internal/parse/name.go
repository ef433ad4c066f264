package parse

import (
	"regexp"
	"strings"
)

// macFragmentRe matches short all-caps alphanumeric names such as "A077" or
// "1234" that the Bluetooth stack reports for devices it cannot name.
var macFragmentRe = regexp.MustCompile(`^[A-Z0-9]{4,6}$`)

// minDeviceNameLen is the shortest name accepted as human-readable.
const minDeviceNameLen = 4

// ValidDeviceName reports whether raw looks like a display name rather than an
// address fragment or an interface path.
func ValidDeviceName(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	if len([]rune(raw)) < minDeviceNameLen {
		return false
	}
	if macFragmentRe.MatchString(raw) {
		return false
	}
	// interface paths look like \\?\USB#VID_...#{a5dcbf10-...}
	if strings.ContainsAny(raw, `\{}`) {
		return false
	}
	return true
}
