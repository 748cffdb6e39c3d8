package version // import "github.com/openshelf/openshelf/version"

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service version, bumped on every release.
var Version = "0.3.1"

// DevVersion is the service version in development.
var DevVersion = "0.0.0"

func GetCurrentVersion() string {
	return Version
}

// GetMinorVersion returns the minor version of the given version string,
// e.g. "0.3.1" -> "0.3".
func GetMinorVersion(version string) string {
	versionList := strings.Split(version, ".")
	if len(versionList) < 3 {
		return version
	}
	return strings.Join(versionList[0:2], ".")
}

// GetSchemaVersion returns the design schema version of the given version,
// which is the minor version with a zero patch, e.g. "0.3.1" -> "0.3.0".
func GetSchemaVersion(version string) string {
	return GetMinorVersion(version) + ".0"
}

func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare("v"+version, "v"+target) >= 0
}

func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare("v"+version, "v"+target) > 0
}

// SortVersion sorts a list of version strings in ascending order in place
// and returns the list.
func SortVersion(versionList []string) []string {
	sort.Slice(versionList, func(i, j int) bool {
		return semver.Compare("v"+versionList[i], "v"+versionList[j]) < 0
	})
	return versionList
}
