package wikitext

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// normalize converts line endings to \n, composes the text to NFC so Hangul
// written as conjoining jamo matches the syllable ranges used for anchors
// and keywords, and removes NUL bytes, which are reserved for placeholders.
func normalize(s string) string {
	s = crlfOrCR.ReplaceAllString(s, "\n")
	s = norm.NFC.String(s)
	return strings.ReplaceAll(s, tokenDelim, "")
}
