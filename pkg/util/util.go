package util

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func FormatFullName(first, last string) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", first, last))
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
