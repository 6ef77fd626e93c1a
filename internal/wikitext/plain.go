package wikitext

import (
	"regexp"
	"strings"
)

var blankLines = regexp.MustCompile(`\n[ \t]*\n\s*`)

// CompilePlain renders text without markup: the whole text is escaped,
// blank lines separate paragraphs and single newlines become line breaks.
// It never produces categories or footnotes.
func CompilePlain(text string) Result {
	text = Escape(normalize(text))
	var paras []string
	for _, p := range blankLines.Split(text, -1) {
		p = strings.Trim(p, "\n")
		if strings.TrimSpace(p) == "" {
			continue
		}
		paras = append(paras, "<p>"+strings.ReplaceAll(p, "\n", "<br/>")+"</p>")
	}
	return Result{
		HTML:       strings.Join(paras, "\n"),
		Categories: []string{},
		Footnotes:  []string{},
		Format:     FormatPlain,
	}
}
