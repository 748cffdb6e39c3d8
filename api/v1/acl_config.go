package v1

import (
	"strings"

	"github.com/openshelf/openshelf/util"
)

var authenticationAllowlist = map[string]bool{
	"/api/v1/signup": true,
	"/api/v1/signin": true,
}

// publicReadPrefixes covers the anonymous reading surface: catalog
// browsing, community posts and QR resolution.
var publicReadPrefixes = []string{
	"/api/v1/books",
	"/api/v1/categories",
	"/api/v1/posts",
	"/api/v1/scan",
}

// publicWriteSuffixes covers anonymous engagement with posts: likes,
// comments and share counts. Comments are held for moderation.
var publicWriteSuffixes = []string{
	"/like",
	"/comments",
	"/share",
}

// isUnauthorizeAllowed returns whether the request is exempted from authentication.
func isUnauthorizeAllowed(method, path string) bool {
	if authenticationAllowlist[path] {
		return true
	}
	switch method {
	case "GET", "HEAD":
		return util.HasPrefixes(path, publicReadPrefixes...)
	case "POST":
		if !strings.HasPrefix(path, "/api/v1/posts/") {
			return false
		}
		for _, suffix := range publicWriteSuffixes {
			if strings.HasSuffix(path, suffix) {
				return true
			}
		}
	}
	return false
}

// staffOnlyPrefixes is the librarian surface: member records,
// circulation, moderation, reporting and system settings.
var staffOnlyPrefixes = []string{
	"/api/v1/members",
	"/api/v1/circulation",
	"/api/v1/feedback/moderate",
	"/api/v1/reports",
	"/api/v1/settings",
	"/api/v1/admin",
}

// mutatingCatalogPrefixes need staff role for non-GET methods while
// staying public for reads.
var mutatingCatalogPrefixes = []string{
	"/api/v1/books",
	"/api/v1/categories",
}

// isOnlyForStaffPath returns true if the request is allowed only for staff roles.
func isOnlyForStaffPath(method, path string) bool {
	if util.HasPrefixes(path, staffOnlyPrefixes...) {
		return true
	}
	if method != "GET" && method != "HEAD" {
		return util.HasPrefixes(path, mutatingCatalogPrefixes...)
	}
	return false
}
