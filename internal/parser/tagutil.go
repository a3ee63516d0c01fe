package parser

import "regexp"

// namePattern extracts the `name="..."` or `name='...'` attribute from an opening
// tag, case-insensitively and tolerant of whitespace around `=`.
var namePattern = regexp.MustCompile(`(?i)name\s*=\s*["']([^"']+)["']`)

// extractTagName returns the value of the tag's name attribute, or "" if absent.
func extractTagName(openingTag string) string {
	match := namePattern.FindStringSubmatch(openingTag)
	if match == nil {
		return ""
	}
	return match[1]
}
