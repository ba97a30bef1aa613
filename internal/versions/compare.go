package versions

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Compare orders two resolvable versions, returning -1, 0 or +1.
// Both strings are compared as semantic versions when they parse
// (product versions like "10" or "10.3" are coerced), otherwise the
// comparison falls back to plain string order.
func Compare(a, b string) int {
	semA, errA := semver.NewVersion(a)
	semB, errB := semver.NewVersion(b)

	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}

	return semA.Compare(semB)
}

// IsNewerVersion reports whether newVersion is strictly greater than oldVersion.
func IsNewerVersion(newVersion, oldVersion string) bool {
	return Compare(newVersion, oldVersion) > 0
}
