package ccombinator

import "fmt"

// Version numbers for this port. Grounded on
// original_source/internal.h's CC_VERSION_MAJOR/CC_VERSION_MINOR/
// CC_VERSION_STRING macros.
const (
	VersionMajor = 0
	VersionMinor = 1
)

// Version renders the major.minor version string.
func Version() string {
	return fmt.Sprintf("%d.%d", VersionMajor, VersionMinor)
}
