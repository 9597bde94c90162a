// Package sanitizer normalizes free-text questions before they are sent to the QA service.
package sanitizer

import (
	"regexp"
	"strings"
)

// whitespace matches what the QA service's own preprocessing treats as
// whitespace: ASCII space characters plus Unicode separators.
const whitespace = `[\s\x{0b}\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	quotesRe      = regexp.MustCompile(`["'\\]`)
	whitespaceRe  = regexp.MustCompile(whitespace + `+`)
	punctuationRe = regexp.MustCompile(whitespace + `*([.,!?])` + whitespace + `*`)
)

// Question strips quotes and backslashes, collapses whitespace and leaves
// exactly one space after each of . , ! ? with none before it.
// It never fails and is idempotent.
func Question(raw string) string {
	s := quotesRe.ReplaceAllString(raw, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = punctuationRe.ReplaceAllString(s, "$1 ")
	return strings.TrimSpace(s)
}
