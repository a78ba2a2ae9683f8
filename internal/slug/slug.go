// Package slug derives URL-safe, unique identifiers from free-text project names.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s_-]`)
	separators   = regexp.MustCompile(`[\s_-]+`)
	validSlug    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Normalize converts free text into slug form: lowercase, strip invalid
// characters, collapse whitespace/underscore/hyphen runs into single hyphens,
// and trim leading/trailing hyphens. Returns "project" when nothing survives.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "project"
	}
	return s
}

// Make returns a normalized slug guaranteed not to collide with any entry in
// existing, appending -1, -2, ... until an unused value is found.
func Make(text string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		taken[e] = struct{}{}
	}

	candidate := Normalize(text)
	if _, ok := taken[candidate]; !ok {
		return candidate
	}
	for i := 1; ; i++ {
		probe := fmt.Sprintf("%s-%d", candidate, i)
		if _, ok := taken[probe]; !ok {
			return probe
		}
	}
}

// IsValid reports whether s is a well-formed slug: lowercase alphanumeric
// segments joined by single hyphens, no leading or trailing hyphen.
func IsValid(s string) bool {
	return validSlug.MatchString(s)
}
