package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// Heading anchors keep Unicode letters, so Hangul titles survive.
	anchorID = regexp.MustCompile(`^[\p{L}\p{N}_\-.:]+$`)
	cellSpan = regexp.MustCompile(`^[0-9]{1,3}$`)
	lazyLoad = regexp.MustCompile(`^(?:lazy|eager)$`)
	langTag  = regexp.MustCompile(`^[A-Za-z0-9+#_.\-]{1,40}$`)
)

// Sanitizer is a second line of defence over compiled wiki HTML. The
// compilers already escape user text; the policy guarantees the output
// stays within the set of elements they generate.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the wiki policy on top of bluemonday's UGC policy.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	p.AllowAttrs("id").Matching(anchorID).Globally()
	p.AllowAttrs("lang").Matching(langTag).OnElements("span")
	p.AllowStyles("color", "background-color", "font-size", "margin-left").Globally()

	p.AllowAttrs("data-lang").Matching(langTag).OnElements("pre")
	p.AllowAttrs("loading").Matching(lazyLoad).OnElements("img")
	p.AllowAttrs("colspan", "rowspan").Matching(cellSpan).OnElements("td", "th")

	p.AllowElements("figure", "figcaption", "section", "nav", "caption",
		"del", "ins", "mark", "abbr", "small", "big", "u", "s")

	return &Sanitizer{policy: p}
}

// Sanitize returns html filtered through the policy.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
