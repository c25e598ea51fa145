package processing

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeTitle squeezes whitespace in a feed title. Entities are already
// decoded by the feed parser, so any that remain are literal text.
func NormalizeTitle(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(input, " "))
}

// NormalizeQuery trims and lowercases a search query.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// MatchesQuery reports whether title contains the normalized query, ignoring case.
// An empty query matches everything.
func MatchesQuery(title, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), query)
}
