package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms start a new line of extracted text.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Dt: true, atom.Dd: true, atom.Tr: true, atom.Pre: true,
	atom.Blockquote: true, atom.Figure: true, atom.Figcaption: true, atom.Section: true,
	atom.Caption: true, atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Dl: true,
	atom.Nav: true,
}

// PlainText returns the readable text of an HTML fragment, one line per
// block element. Whitespace inside a line is collapsed and empty lines are
// dropped. Script and style content is skipped.
func PlainText(fragment string) (string, error) {
	doc, _, err := parseHTML(fragment)
	if err != nil {
		return "", err
	}

	var lines []string
	var line strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(line.String()), " "); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			line.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
				line.WriteByte(' ')
			}
		}

		block := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(doc)
	flush()

	return strings.Join(lines, "\n"), nil
}

// Excerpt returns at most limit runes of text, cut at a word boundary when
// one exists, with an ellipsis appended when anything was dropped.
func Excerpt(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	cut := limit
	for i := limit; i > limit/2; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…"
}
