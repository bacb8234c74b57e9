package utils

import (
	"strconv"
	"strings"
)

// TruncateForLog shortens s to limit runes for log previews, appending an
// ellipsis when truncated. Inner whitespace is collapsed.
func TruncateForLog(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// JoinLimited joins at most limit items and notes how many were left out,
// e.g. "go, sql (+3 more)". A non-positive limit joins everything.
func JoinLimited(items []string, limit int) string {
	if limit <= 0 || len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:limit], ", ") + " (+" + strconv.Itoa(len(items)-limit) + " more)"
}
