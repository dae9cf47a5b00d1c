package pipeline

import (
	"strings"
	"unicode"
)

// HasContent reports whether s holds at least one non-whitespace rune.
// Every segment and block passes this check before it is emitted.
func HasContent(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}
