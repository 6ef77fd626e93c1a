package wikitext

import (
	"io"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
)

// voidElements never carry an end tag.
var voidElements = map[string]bool{"br": true, "hr": true, "img": true}

// assertBalanced fails when an element in doc is left open or closed out of
// order. It works on the token stream, so it does not repair anything the
// way an HTML parser would.
func assertBalanced(t *testing.T, doc string) {
	t.Helper()

	var stack []string
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				t.Fatalf("tokenizing %q: %v", doc, z.Err())
			}
			if len(stack) > 0 {
				t.Errorf("unclosed elements %v in %q", stack, doc)
			}
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				stack = append(stack, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 || stack[len(stack)-1] != string(name) {
				t.Errorf("unexpected </%s> with open %v in %q", name, stack, doc)
				return
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// fixedClock returns a clock frozen at 2024-03-05 14:07:09 UTC.
func fixedClock() func() time.Time {
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	return func() time.Time { return at }
}
