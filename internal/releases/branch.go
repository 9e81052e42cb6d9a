package releases

import (
	"fmt"
	"strconv"
	"strings"
)

// fallbackBranch is used when a version string cannot be parsed.
const fallbackBranch = "version-16"

// BranchLabel derives the framework branch for a release tag: the leading
// v is stripped and the major number selects the version-<major> branch.
// Unparsable input falls back to the newest known branch.
func BranchLabel(version string) string {
	v := strings.TrimPrefix(version, "v")
	majorPart, _, _ := strings.Cut(v, ".")
	major, err := strconv.Atoi(majorPart)
	if err != nil || major <= 0 {
		return fallbackBranch
	}
	return fmt.Sprintf("version-%d", major)
}
