package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// Highlighter renders code blocks with chroma using CSS classes, so the
// compiled fragment stays small and the colours live in one stylesheet.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter returns a highlighter for the named chroma style. Unknown
// names fall back to chroma's default style.
func NewHighlighter(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	return &Highlighter{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight tokenises code with the lexer registered for lang and returns
// the markup that belongs inside <code>. It reports false when lang is
// empty or unknown, leaving the caller to escape the code itself.
func (h *Highlighter) Highlight(lang, code string) (string, bool) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var b strings.Builder
	b.WriteString(`<span class="chroma">`)
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "", false
	}
	b.WriteString(`</span>`)
	return b.String(), true
}

// CSS returns the stylesheet for the highlighter's style.
func (h *Highlighter) CSS() (string, error) {
	var b strings.Builder
	if err := h.formatter.WriteCSS(&b, h.style); err != nil {
		return "", err
	}
	return b.String(), nil
}

// StyleNames lists the registered chroma styles.
func StyleNames() []string {
	return styles.Names()
}
