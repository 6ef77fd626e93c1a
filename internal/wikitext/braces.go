package wikitext

import "strings"

// stripInnermost rewrites every open...close span in s with fn, innermost
// first: a span's body reaches fn with its nested spans already rewritten.
// Balanced nesting is what a regular expression cannot express, so this is
// a single left-to-right scan over a stack of open delimiters. Unterminated
// opens and stray closes stay as literal text. It returns the rewritten text
// and the deepest nesting level that was rewritten.
func stripInnermost(s, open, close string, fn func(body string) string) (string, int) {
	// frame marks an open delimiter: where its body starts in out, and the
	// deepest span closed inside it.
	type frame struct {
		start int
		depth int
	}

	out := make([]byte, 0, len(s))
	var stack []frame
	depth := 0
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], open):
			out = append(out, open...)
			stack = append(stack, frame{start: len(out)})
			i += len(open)
		case len(stack) > 0 && strings.HasPrefix(s[i:], close):
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			body := string(out[top.start:])
			out = append(out[:top.start-len(open)], fn(body)...)
			d := top.depth + 1
			if len(stack) > 0 {
				stack[len(stack)-1].depth = max(stack[len(stack)-1].depth, d)
			} else {
				depth = max(depth, d)
			}
			i += len(close)
		default:
			out = append(out, s[i])
			i++
		}
	}
	for _, f := range stack {
		depth = max(depth, f.depth)
	}
	return string(out), depth
}
