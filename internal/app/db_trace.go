package app

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTracedQueryLength = 512

var (
	sqlLineCommentRegex = regexp.MustCompile(`--[^\n]*`)
	sqlSpaceRegex       = regexp.MustCompile(`\s+`)
)

// formatDBQueryForTrace collapses a statement to one line and caps its size
// before it lands on a span.
func formatDBQueryForTrace(query string) string {
	query = sqlLineCommentRegex.ReplaceAllString(query, " ")
	query = strings.TrimSpace(sqlSpaceRegex.ReplaceAllString(query, " "))
	if len(query) <= maxTracedQueryLength {
		return query
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut] + "..."
}
