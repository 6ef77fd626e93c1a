package wikitext

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder tokens are "\x00P<index>\x00". Input is stripped of NUL bytes
// during normalization and the compiler never emits NUL itself, so a token
// cannot collide with user text or generated markup.
const (
	tokenDelim  = "\x00"
	tokenPrefix = tokenDelim + "P"
)

var (
	tokenPattern     = regexp.MustCompile("\x00P(\\d+)\x00")
	tokenLinePattern = regexp.MustCompile("^\\s*\x00P(\\d+)\x00\\s*$")
	paraTokenPattern = regexp.MustCompile("<p>\\s*\x00P(\\d+)\x00\\s*</p>")
)

// spanKind tells restoration whether a span may sit inside a paragraph.
type spanKind int

const (
	spanInline spanKind = iota
	spanBlock
	spanMarkup
)

// span is one protected fragment: its final HTML and the source text it
// stands for.
type span struct {
	html   string
	source string
	kind   spanKind
}

// Protector records spans that must survive later rewriting verbatim and
// hands out placeholder tokens for them. A Protector belongs to a single
// compilation and is not safe for concurrent use.
type Protector struct {
	spans  []span
	markup map[string]string
}

// NewProtector returns an empty Protector.
func NewProtector() *Protector {
	return &Protector{markup: make(map[string]string)}
}

// Inline protects html that may appear inside a paragraph.
// source is the text the span reveals as in plain-text contexts.
func (p *Protector) Inline(html, source string) string {
	return p.add(span{html: html, source: source, kind: spanInline})
}

// Block protects html that must not be wrapped in a paragraph.
func (p *Protector) Block(html, source string) string {
	return p.add(span{html: html, source: source, kind: spanBlock})
}

// Markup protects a compiler-generated tag. Identical tags share a token.
func (p *Protector) Markup(html string) string {
	if tok, ok := p.markup[html]; ok {
		return tok
	}
	tok := p.add(span{html: html, kind: spanMarkup})
	p.markup[html] = tok
	return tok
}

// Len returns the number of recorded spans.
func (p *Protector) Len() int {
	return len(p.spans)
}

func (p *Protector) add(s span) string {
	tok := tokenPrefix + strconv.Itoa(len(p.spans)) + tokenDelim
	p.spans = append(p.spans, s)
	return tok
}

// lookup resolves the index captured by one of the token patterns.
func (p *Protector) lookup(idx string) (span, bool) {
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 || n >= len(p.spans) {
		return span{}, false
	}
	return p.spans[n], true
}

// BlockSpans returns the [start, end) offsets of the block tokens in s.
func (p *Protector) BlockSpans(s string) [][2]int {
	if !strings.Contains(s, tokenPrefix) {
		return nil
	}
	var out [][2]int
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(s, -1) {
		if sp, ok := p.lookup(s[loc[2]:loc[3]]); ok && sp.kind == spanBlock {
			out = append(out, [2]int{loc[0], loc[1]})
		}
	}
	return out
}

// IsBlockLine reports whether line holds nothing but a block token.
func (p *Protector) IsBlockLine(line string) bool {
	m := tokenLinePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	s, ok := p.lookup(m[1])
	return ok && s.kind == spanBlock
}

// Restore replaces every token in s with its HTML. A block token that is
// the sole content of a paragraph replaces the paragraph. Spans only embed
// tokens issued before them, so expansion terminates. Unknown tokens and
// stray delimiters are dropped.
func (p *Protector) Restore(s string) string {
	s = paraTokenPattern.ReplaceAllStringFunc(s, func(m string) string {
		idx := paraTokenPattern.FindStringSubmatch(m)[1]
		if sp, ok := p.lookup(idx); ok && sp.kind == spanBlock {
			return tokenPrefix + idx + tokenDelim
		}
		return m
	})
	s = p.expand(s, func(sp span) string { return sp.html })
	return strings.ReplaceAll(s, tokenDelim, "")
}

// Reveal replaces every token in s with the source text it stands for.
// Generated markup reveals as nothing.
func (p *Protector) Reveal(s string) string {
	s = p.expand(s, func(sp span) string { return sp.source })
	return strings.ReplaceAll(s, tokenDelim, "")
}

// Balance drops markup tokens that would leave s ill-nested: a closing tag
// that does not match the innermost open one, and every tag still open at
// the end. Text and other spans are untouched.
func (p *Protector) Balance(s string) string {
	locs := tokenPattern.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	type openTag struct {
		name string
		at   int
	}
	var stack []openTag
	drop := make(map[int]bool)
	for _, l := range locs {
		sp, ok := p.lookup(s[l[2]:l[3]])
		if !ok || sp.kind != spanMarkup {
			continue
		}
		name, closing, ok := tagOf(sp.html)
		switch {
		case !ok:
		case !closing:
			stack = append(stack, openTag{name, l[0]})
		case len(stack) > 0 && stack[len(stack)-1].name == name:
			stack = stack[:len(stack)-1]
		default:
			drop[l[0]] = true
		}
	}
	for _, o := range stack {
		drop[o.at] = true
	}
	if len(drop) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, l := range locs {
		if drop[l[0]] {
			b.WriteString(s[last:l[0]])
			last = l[1]
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

// tagOf reports the element name of a lone opening or closing tag.
// Complete elements and void tags report ok false.
func tagOf(html string) (name string, closing, ok bool) {
	if !strings.HasPrefix(html, "<") || strings.HasSuffix(html, "/>") {
		return "", false, false
	}
	if strings.HasPrefix(html, "</") {
		return strings.TrimSuffix(html[2:], ">"), true, true
	}
	if strings.Contains(html, "</") {
		return "", false, false
	}
	end := strings.IndexAny(html, " >")
	if end < 0 {
		return "", false, false
	}
	return html[1:end], false, true
}

// Strip removes every token from s.
func Strip(s string) string {
	s = tokenPattern.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, tokenDelim, "")
}

// expand writes s to a single builder with every token replaced by its
// picked text, recursively, so nested spans cost their output size once.
func (p *Protector) expand(s string, pick func(span) string) string {
	if !strings.Contains(s, tokenPrefix) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	p.expandTo(&b, s, pick)
	return b.String()
}

func (p *Protector) expandTo(b *strings.Builder, s string, pick func(span) string) {
	last := 0
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:loc[0]])
		if sp, ok := p.lookup(s[loc[2]:loc[3]]); ok {
			p.expandTo(b, pick(sp), pick)
		}
		last = loc[1]
	}
	b.WriteString(s[last:])
}
