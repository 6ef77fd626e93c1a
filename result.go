package wiki2html

import (
	"github.com/alnah/go-wiki2html/internal/pipeline"
	"github.com/alnah/go-wiki2html/internal/wikitext"
)

// Result is the output of one compilation.
type Result struct {
	HTML       string   `json:"html"`               // Compiled fragment
	Document   string   `json:"document,omitempty"` // Standalone page, set by RenderPage only
	Categories []string `json:"categories"`         // Category names in source order
	Footnotes  []string `json:"footnotes"`          // Footnote bodies in order of appearance
	Format     Format   `json:"format"`             // Dialect the text was compiled as
	Redirect   string   `json:"redirect,omitempty"` // Redirect target, if the page is one
}

func newResult(r wikitext.Result) *Result {
	return &Result{
		HTML:       r.HTML,
		Categories: r.Categories,
		Footnotes:  r.Footnotes,
		Format:     r.Format,
		Redirect:   r.Redirect,
	}
}

// PlainText returns the readable text of the compiled fragment, one line
// per block.
func (r *Result) PlainText() (string, error) {
	return pipeline.PlainText(r.HTML)
}

// Excerpt returns at most limit runes of the fragment's text, cut at a
// word boundary. It returns "" if the fragment cannot be parsed.
func (r *Result) Excerpt(limit int) string {
	text, err := r.PlainText()
	if err != nil {
		return ""
	}
	return pipeline.Excerpt(text, limit)
}
