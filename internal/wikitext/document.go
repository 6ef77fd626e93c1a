package wikitext

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default option values.
const (
	DefaultLinkPrefix = "/wiki/"
	DefaultDateLayout = "2006. 1. 2."
)

// Options tunes a compilation. The zero value is usable.
type Options struct {
	// LinkPrefix is prepended to the escaped target of internal links.
	LinkPrefix string

	// DateLayout is the Go time layout used by the [date] macro.
	DateLayout string

	// Now supplies the current time for date macros.
	Now func() time.Time

	// Highlight renders code for a language tag and returns the HTML that
	// goes inside <code>. It must escape the code itself. When nil, or when
	// it reports false, code is escaped verbatim.
	Highlight func(lang, code string) (string, bool)
}

func (o Options) withDefaults() Options {
	if o.LinkPrefix == "" {
		o.LinkPrefix = DefaultLinkPrefix
	}
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result is the output of one compilation.
type Result struct {
	HTML       string   `json:"html"`
	Categories []string `json:"categories"`
	Footnotes  []string `json:"footnotes"`
	Format     Format   `json:"format"`
	Redirect   string   `json:"redirect,omitempty"`
}

var (
	emptyParagraph = regexp.MustCompile(`<p>\s*</p>`)
	extraBlank     = regexp.MustCompile(`\n{3,}`)
)

// document is the per-call state shared by both dialect compilers.
type document struct {
	opts       Options
	prot       *Protector
	categories []string
	footnotes  []string
	notes      []string
	markers    []string
	redirect   string
}

func newDocument(opts Options) *document {
	return &document{
		opts:       opts.withDefaults(),
		prot:       NewProtector(),
		categories: []string{},
		footnotes:  []string{},
	}
}

// addCategory records a category name with any protected span revealed.
func (d *document) addCategory(name string) {
	name = strings.TrimSpace(d.prot.Reveal(name))
	if name != "" {
		d.categories = append(d.categories, name)
	}
}

// addFootnote records a footnote and returns the token of its marker.
// Indices start at 1 and follow encounter order.
func (d *document) addFootnote(body, bodyHTML string) string {
	d.footnotes = append(d.footnotes, strings.TrimSpace(d.prot.Reveal(body)))
	d.notes = append(d.notes, bodyHTML)
	n := strconv.Itoa(len(d.footnotes))
	tok := d.prot.Markup(`<sup class="wiki-footnote-ref"><a href="#fn-` + n + `" id="fnref-` + n + `">[` + n + `]</a></sup>`)
	d.markers = append(d.markers, tok)
	return tok
}

// orphanMarkers returns the markers that block parsing dropped along with
// the markup around them, such as table attributes.
func (d *document) orphanMarkers(body string) string {
	var b strings.Builder
	for _, tok := range d.markers {
		if !strings.Contains(body, tok) {
			b.WriteString(tok)
		}
	}
	return b.String()
}

// footnoteSection renders the collected footnote bodies.
func (d *document) footnoteSection() string {
	var b strings.Builder
	b.WriteString(`<section class="wiki-footnotes"><hr class="wiki-hr"/><ol>`)
	for i, note := range d.notes {
		n := strconv.Itoa(i + 1)
		b.WriteString(`<li id="fn-` + n + `"><a href="#fnref-` + n + `">↑</a> ` + note + `</li>`)
	}
	b.WriteString(`</ol></section>`)
	return b.String()
}

// codeBlock protects a preformatted code block, highlighted when a
// highlighter accepts the language.
func (d *document) codeBlock(lang, code string) string {
	code = strings.TrimPrefix(strings.TrimRight(code, " \t\n"), "\n")
	body := ""
	if lang != "" && d.opts.Highlight != nil {
		if h, ok := d.opts.Highlight(lang, code); ok {
			body = h
		}
	}
	if body == "" {
		body = Escape(code)
	}
	attr := ""
	if lang != "" {
		attr = ` data-lang="` + Escape(lang) + `"`
	}
	return d.prot.Block(`<pre class="wiki-codeblock"`+attr+`><code>`+body+`</code></pre>`, code)
}

// inlineCode protects a short literal as inline code.
func (d *document) inlineCode(code string) string {
	return d.prot.Inline(`<code class="wiki-inline-code">`+Escape(code)+`</code>`, code)
}

// finish assembles the result: footnote section, placeholder restoration,
// and removal of paragraphs emptied by earlier stripping.
func (d *document) finish(body string, format Format) Result {
	if orphans := d.orphanMarkers(body); orphans != "" {
		body += "\n<p>" + orphans + "</p>"
	}
	if len(d.notes) > 0 {
		body += "\n" + d.footnoteSection()
	}
	// Clean-up runs on tokenized text so preformatted spans keep their blank lines.
	body = emptyParagraph.ReplaceAllString(body, "")
	body = extraBlank.ReplaceAllString(body, "\n\n")
	html := d.prot.Restore(body)
	return Result{
		HTML:       strings.TrimSpace(html),
		Categories: d.categories,
		Footnotes:  d.footnotes,
		Format:     format,
		Redirect:   d.redirect,
	}
}
