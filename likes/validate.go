package likes

import "regexp"

// Slugs are restricted to path-safe characters so a request can never
// address anything outside its own record in the document.
var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// userIDPattern accepts canonical v4 UUIDs only: five hyphenated hex
// groups with version nibble 4 and variant nibble 8-b, any case. Looser
// UUID forms (braced, urn-prefixed, undashed) are rejected.
var userIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

const maxSlugLen = 200

// ValidSlug reports whether slug is non-empty, at most 200 characters,
// and contains only letters, digits, hyphens, and underscores.
func ValidSlug(slug string) bool {
	return slug != "" && len(slug) <= maxSlugLen && slugPattern.MatchString(slug)
}

// ValidUserID reports whether id is a canonical v4 UUID.
func ValidUserID(id string) bool {
	return userIDPattern.MatchString(id)
}
