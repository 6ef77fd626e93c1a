package pipeline

import (
	"context"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, else right after the
// opening <body> tag, else at the front of the content. The stylesheet is
// escaped so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if pos := afterBodyTag(htmlContent, lowerHTML); pos != -1 {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so a stylesheet cannot end its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// afterBodyTag returns the offset just past the opening <body ...> tag, or
// -1 when there is none.
func afterBodyTag(htmlContent, lowerHTML string) int {
	idx := strings.Index(lowerHTML, "<body")
	if idx == -1 {
		return -1
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return -1
	}
	return idx + closeIdx + 1
}

// TOCData configures the table of contents.
type TOCData struct {
	Title    string
	MinDepth int // shallowest heading level listed (default 1)
	MaxDepth int // deepest heading level listed (default 3)
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

// headingInfo is one heading found in compiled output.
type headingInfo struct {
	Level int
	ID    string
	Text  string
}

// headingPattern matches h1-h6 elements carrying an id.
// Captures: 1=level, 2=id, 3=inner HTML.
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags returns the decoded text of an HTML snippet.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// extractHeadings returns the headings between minDepth and maxDepth.
func extractHeadings(htmlContent string, minDepth, maxDepth int) []headingInfo {
	var headings []headingInfo
	for _, m := range headingPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{Level: level, ID: html.UnescapeString(m[2]), Text: stripHTMLTags(m[3])})
	}
	return headings
}

// outline numbers headings the way wiki articles do ("1.", "1.2.", ...).
// Nesting follows the stack of open heading levels, so a jump from h2 to
// h4 nests one step and a following h3 becomes the h4's sibling.
type outline struct {
	levels   []int
	counters []int
}

// next returns the section number and nesting depth for a heading level.
func (o *outline) next(level int) (string, int) {
	n := len(o.levels)
	for n > 0 && o.levels[n-1] >= level {
		n--
	}
	count := 1
	if n < len(o.levels) {
		count = o.counters[n] + 1
	}
	o.levels = append(o.levels[:n], level)
	o.counters = append(o.counters[:n], count)

	var b strings.Builder
	for _, c := range o.counters {
		b.WriteString(strconv.Itoa(c))
		b.WriteByte('.')
	}
	return b.String(), len(o.levels)
}

// renderTOC builds the navigation block for headings.
func renderTOC(headings []headingInfo, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="wiki-toc">`)
	if title != "" {
		b.WriteString(`<h2 class="wiki-toc-title">` + html.EscapeString(title) + `</h2>`)
	}
	b.WriteString(`<div class="wiki-toc-list">`)

	var o outline
	for _, h := range headings {
		num, depth := o.next(h.Level)
		b.WriteString(`<div class="wiki-toc-item"`)
		if depth > 1 {
			b.WriteString(` style="margin-left:` + strconv.FormatFloat(float64(depth-1)*1.5, 'f', 1, 64) + `em"`)
		}
		b.WriteString(`><a href="#` + html.EscapeString(h.ID) + `">` + num + ` ` + html.EscapeString(h.Text) + `</a></div>`)
	}

	b.WriteString(`</div></nav>`)
	return b.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC lists the headings of htmlContent in a numbered table of
// contents placed at the start of the body. Nil data or a document
// without headings is returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	minDepth, maxDepth := data.MinDepth, data.MaxDepth
	if minDepth <= 0 {
		minDepth = 1
	}
	if maxDepth <= 0 {
		maxDepth = 3
	}

	toc := renderTOC(extractHeadings(htmlContent, minDepth, maxDepth), data.Title)
	if toc == "" {
		return htmlContent, nil
	}
	if pos := afterBodyTag(htmlContent, strings.ToLower(htmlContent)); pos != -1 {
		return htmlContent[:pos] + toc + htmlContent[pos:], nil
	}
	return toc + htmlContent, nil
}

// documentTemplate wraps a compiled fragment in a complete HTML5 document.
const documentTemplate = `<!DOCTYPE html>
<html lang="%LANG%">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%TITLE%</title>
</head>
<body>
<article class="wiki-article">
%BODY%
</article>
</body>
</html>
`

// WrapDocument returns a standalone HTML5 document around body. title and
// lang are escaped; an empty lang defaults to "ko".
func WrapDocument(title, lang, body string) string {
	if lang == "" {
		lang = "ko"
	}
	if title == "" {
		title = "Document"
	}
	r := strings.NewReplacer(
		"%LANG%", html.EscapeString(lang),
		"%TITLE%", html.EscapeString(title),
		"%BODY%", body,
	)
	return r.Replace(documentTemplate)
}
