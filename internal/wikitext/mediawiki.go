package wikitext

import (
	"regexp"
	"strings"
)

var (
	mwMagicWords = regexp.MustCompile(`__(?:TOC|NOTOC|FORCETOC|NOEDITSECTION|NEWSECTIONLINK|NONEWSECTIONLINK)__`)
	mwRedirect   = regexp.MustCompile(`(?i)^\s*#(?:REDIRECT|넘겨주기)\s*:?\s*\[\[([^\[\]\n]+)\]\][^\n]*`)
	mwComment    = regexp.MustCompile(`(?s)<!--.*?-->`)

	mwNowiki      = regexp.MustCompile(`(?is)<nowiki>(.*?)</nowiki>`)
	mwNowikiEmpty = regexp.MustCompile(`(?i)<nowiki\s*/>`)
	mwPre         = regexp.MustCompile(`(?is)<pre(?:\s[^>]*)?>(.*?)</pre>`)
	mwSource      = regexp.MustCompile(`(?is)<(?:source|syntaxhighlight)(\s[^>]*)?>(.*?)</(?:source|syntaxhighlight)>`)
	mwLangAttr    = regexp.MustCompile(`(?i)\blang\s*=\s*["']?([\w+#.-]+)`)
	mwCode        = regexp.MustCompile(`(?is)<code>(.*?)</code>`)
	mwBreak       = regexp.MustCompile(`(?i)&lt;br\s*/?&gt;`)

	mwCategory = regexp.MustCompile(`(?i)\[\[(?:Category|분류):([^\[\]|\n]+)(?:\|[^\[\]\n]*)?\]\]`)
	mwImage    = regexp.MustCompile(`(?i)\[\[(?:File|Image|파일|이미지):([^\[\]|\n]+)(?:\|([^\[\]\n]*))?\]\]`)
	mwImageDim = regexp.MustCompile(`^\d*(?:x\d+)?px$`)

	mwRefSelfClosing = regexp.MustCompile(`(?i)<ref(?:\s[^>]*)?/>`)
	mwRef            = regexp.MustCompile(`(?is)<ref(?:\s[^>]*)?>(.*?)</ref>`)
	mwReferences     = regexp.MustCompile(`(?is)<references(?:\s[^>]*)?>.*?</references>`)
	mwReferencesTag  = regexp.MustCompile(`(?i)<references(?:\s[^>]*)?/?>`)

	mwHeading    = regexp.MustCompile(`^(=+)\s*(.+?)\s*=+\s*$`)
	mwListItem   = regexp.MustCompile(`^([*#]+)\s*(.*)$`)
	mwDefinition = regexp.MustCompile(`^;\s*(.*?)\s*:\s*(.*)$`)
	mwTerm       = regexp.MustCompile(`^;\s*(.*)$`)
	mwIndent     = regexp.MustCompile(`^(:+)\s*(.*)$`)
	mwCellSpan   = regexp.MustCompile(`(?i)\b(colspan|rowspan)\s*=\s*["']?(\d{1,3})`)
)

// mwFormattingTags pass through as markup only when written bare, with
// both ends in one text fragment. The patterns match escaped text; a tag
// carrying attributes stays escaped.
var mwFormattingTags = buildTagPatterns(
	"s", "u", "sub", "sup", "small", "big", "del", "ins", "mark", "abbr",
)

type tagPattern struct {
	name    string
	pattern *regexp.Regexp
}

func buildTagPatterns(names ...string) []tagPattern {
	out := make([]tagPattern, len(names))
	for i, n := range names {
		out[i] = tagPattern{n, regexp.MustCompile(`(?i)&lt;` + n + `&gt;(.*?)&lt;/` + n + `&gt;`)}
	}
	return out
}

// mwImageKeywords are image options that never serve as a caption.
var mwImageKeywords = map[string]string{
	"thumb": "wiki-image-thumb", "thumbnail": "wiki-image-thumb", "섬네일": "wiki-image-thumb",
	"right": "wiki-image-right", "오른쪽": "wiki-image-right",
	"left": "wiki-image-left", "왼쪽": "wiki-image-left",
	"center": "wiki-image-center", "가운데": "wiki-image-center",
	"none": "", "없음": "", "frame": "", "framed": "", "frameless": "", "border": "", "upright": "",
}

// mediaWiki compiles the MediaWiki-style dialect.
type mediaWiki struct {
	*document
	w     *blockWriter
	table *mwTable
}

// CompileMediaWiki compiles text as MediaWiki markup.
func CompileMediaWiki(text string, opts Options) Result {
	c := &mediaWiki{document: newDocument(opts)}
	c.w = newBlockWriter("\n")
	c.w.closeTable = c.closeTable

	text = normalize(text)
	text = c.stripDirectives(text)
	text = c.protect(text)
	text, _ = stripInnermost(text, "{{", "}}", c.template)
	text = c.extractCategories(text)
	text = c.extractImages(text)
	text = c.extractFootnotes(text)
	c.parseBlocks(text)
	return c.finish(c.w.String(), FormatMediaWiki)
}

func (c *mediaWiki) inline(s string) string {
	s = Escape(s)
	for _, t := range mwFormattingTags {
		open, close := c.prot.Markup("<"+t.name+">"), c.prot.Markup("</"+t.name+">")
		s = t.pattern.ReplaceAllString(s, open+"${1}"+close)
	}
	s = mwBreak.ReplaceAllString(s, c.prot.Markup("<br/>"))
	s = c.links(s)
	s = c.wrap(s, boldItalicRule, boldRule, italicRule)
	return c.prot.Balance(s)
}

func (c *mediaWiki) stripDirectives(text string) string {
	text = mwMagicWords.ReplaceAllString(text, "")
	if m := mwRedirect.FindStringSubmatchIndex(text); m != nil {
		target := text[m[2]:m[3]]
		page, _, _ := strings.Cut(target, "|")
		c.redirect = strings.TrimSpace(page)
		esc := Escape(c.redirect)
		notice := c.prot.Block(`<div class="wiki-redirect">→ `+c.link(esc, esc)+`</div>`, c.redirect)
		text = text[:m[0]] + notice + text[m[1]:]
	}
	return text
}

func (c *mediaWiki) protect(text string) string {
	text = mwNowiki.ReplaceAllStringFunc(text, func(m string) string {
		body := mwNowiki.FindStringSubmatch(m)[1]
		return c.prot.Inline(Escape(body), body)
	})
	text = mwNowikiEmpty.ReplaceAllString(text, "")
	text = mwPre.ReplaceAllStringFunc(text, func(m string) string {
		return c.codeBlock("", mwPre.FindStringSubmatch(m)[1])
	})
	text = mwSource.ReplaceAllStringFunc(text, func(m string) string {
		sm := mwSource.FindStringSubmatch(m)
		lang := ""
		if lm := mwLangAttr.FindStringSubmatch(sm[1]); lm != nil {
			lang = strings.ToLower(lm[1])
		}
		return c.codeBlock(lang, sm[2])
	})
	text = mwCode.ReplaceAllStringFunc(text, func(m string) string {
		return c.inlineCode(mwCode.FindStringSubmatch(m)[1])
	})
	return mwComment.ReplaceAllString(text, "")
}

// template rewrites the body of one innermost {{...}}. Language and quote
// templates keep their content; every other template is dropped.
func (c *mediaWiki) template(body string) string {
	args := splitPipes(body)
	name := strings.ToLower(strings.TrimSpace(args[0]))
	args = args[1:]
	switch {
	case name == "lang" && len(args) >= 2:
		return c.langSpan(args[0], strings.Join(args[1:], "|"))
	case strings.HasPrefix(name, "lang-") && len(args) >= 1:
		return c.langSpan(name[len("lang-"):], strings.Join(args, "|"))
	case (name == "quote" || name == "인용문") && len(args) >= 1:
		text := templateArg(args)
		return c.prot.Block(`<blockquote class="wiki-quote">`+c.inline(text)+`</blockquote>`, text)
	}
	return ""
}

var langCode = regexp.MustCompile(`^[A-Za-z]{2,8}(?:-[A-Za-z0-9]{1,8})*$`)

func (c *mediaWiki) langSpan(code, text string) string {
	code = strings.TrimSpace(code)
	if !langCode.MatchString(code) {
		return text
	}
	return c.prot.Markup(`<span class="wiki-lang" lang="`+code+`">`) + text + c.prot.Markup("</span>")
}

// templateArg returns the first positional argument, or the value of a
// text=, quote= or 1= named argument.
func templateArg(args []string) string {
	for _, a := range args {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return strings.TrimSpace(a)
		}
		switch strings.TrimSpace(strings.ToLower(key)) {
		case "text", "quote", "1":
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (c *mediaWiki) extractCategories(text string) string {
	return mwCategory.ReplaceAllStringFunc(text, func(m string) string {
		c.addCategory(mwCategory.FindStringSubmatch(m)[1])
		return ""
	})
}

func (c *mediaWiki) extractImages(text string) string {
	return mwImage.ReplaceAllStringFunc(text, func(m string) string {
		sm := mwImage.FindStringSubmatch(m)
		src := strings.TrimSpace(c.prot.Reveal(sm[1]))
		classes := []string{"wiki-image"}
		caption, alt := "", ""
		align := ""
		if sm[2] != "" {
			for _, opt := range strings.Split(sm[2], "|") {
				opt = strings.TrimSpace(opt)
				key := strings.ToLower(opt)
				if cls, ok := mwImageKeywords[key]; ok {
					switch {
					case cls == "wiki-image-thumb":
						classes = appendOnce(classes, cls)
					case cls != "" && align == "":
						align = cls
					}
					continue
				}
				if strings.HasPrefix(key, "alt=") {
					alt = strings.TrimSpace(c.prot.Reveal(opt[len("alt="):]))
					continue
				}
				if mwImageDim.MatchString(key) || strings.Contains(key, "=") || opt == "" {
					continue
				}
				caption = c.prot.Reveal(opt)
			}
		}
		if align != "" {
			classes = append(classes, align)
		}
		if caption == "" {
			caption = src
		}
		if alt == "" {
			alt = caption
		}
		return c.prot.Block(`<figure class="`+strings.Join(classes, " ")+`"><img src="`+Escape(src)+`" alt="`+Escape(alt)+
			`" loading="lazy"/><figcaption>`+Escape(caption)+`</figcaption></figure>`, caption)
	})
}

func appendOnce(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func (c *mediaWiki) extractFootnotes(text string) string {
	text = mwRefSelfClosing.ReplaceAllString(text, "")
	text = mwRef.ReplaceAllStringFunc(text, func(m string) string {
		body := strings.TrimSpace(mwRef.FindStringSubmatch(m)[1])
		return c.addFootnote(body, c.inline(body))
	})
	text = mwReferences.ReplaceAllString(text, "")
	return mwReferencesTag.ReplaceAllString(text, "")
}

func (c *mediaWiki) parseBlocks(text string) {
	for _, line := range strings.Split(text, "\n") {
		c.parseLine(line)
	}
}

// parseLine classifies one line. The order of the cases is the priority
// order of line kinds.
func (c *mediaWiki) parseLine(line string) {
	trimmed := strings.TrimLeft(line, " \t")
	inTable := c.table != nil
	heading := matchHeading(mwHeading, line)

	switch {
	case c.prot.IsBlockLine(line):
		c.w.enter(blockNone)
		c.w.emit(strings.TrimSpace(line))

	case strings.HasPrefix(trimmed, "{|"):
		c.w.enter(blockNone)
		c.table = &mwTable{}

	case inTable && strings.HasPrefix(trimmed, "|}"):
		c.closeTable()

	case inTable && strings.HasPrefix(trimmed, "|-"):
		c.table.endRow()

	case inTable && strings.HasPrefix(trimmed, "|+"):
		_, caption := splitCellAttrs(trimmed[2:])
		c.table.caption = c.inline(strings.TrimSpace(caption))

	case inTable && strings.HasPrefix(trimmed, "!"):
		row := strings.ReplaceAll(trimmed[1:], "||", "!!")
		for _, cell := range strings.Split(row, "!!") {
			c.addCell(true, cell)
		}

	case inTable && strings.HasPrefix(trimmed, "|"):
		for _, cell := range strings.Split(trimmed[1:], "||") {
			c.addCell(false, cell)
		}

	case horizontalRule.MatchString(line):
		c.w.enter(blockNone)
		c.w.emit(`<hr class="wiki-hr"/>`)

	case heading != nil:
		c.w.enter(blockNone)
		c.w.emit(c.heading(len(heading[1]), heading[2], c.inline(heading[2])))

	case mwListItem.MatchString(line):
		m := mwListItem.FindStringSubmatch(line)
		tags := make([]string, len(m[1]))
		for i, r := range m[1] {
			tags[i] = "ul"
			if r == '#' {
				tags[i] = "ol"
			}
		}
		c.w.listItem(tags, c.inline(m[2]))

	case strings.HasPrefix(line, ";"):
		c.w.enter(blockNone)
		if m := mwDefinition.FindStringSubmatch(line); m != nil {
			c.w.emit(`<dl class="wiki-deflist"><dt>` + c.inline(m[1]) + `</dt><dd>` + c.inline(m[2]) + `</dd></dl>`)
		} else {
			c.w.emit(`<dl class="wiki-deflist"><dt>` + c.inline(mwTerm.FindStringSubmatch(line)[1]) + `</dt></dl>`)
		}

	case mwIndent.MatchString(line):
		m := mwIndent.FindStringSubmatch(line)
		c.w.enter(blockNone)
		c.w.emit(indent(len(m[1]), c.inline(m[2])))

	case strings.TrimSpace(line) == "":
		if !inTable {
			c.w.blank()
		}

	case inTable && c.table.hasCell():
		c.table.appendToCell(c.inline(strings.TrimSpace(line)))

	default:
		c.w.textLine(c.prot, line, c.inline)
	}
}

// matchHeading returns the marker run and text of a heading line, or nil
// when the line is not a heading or its text is made of markers only.
func matchHeading(re *regexp.Regexp, line string) []string {
	m := re.FindStringSubmatch(line)
	if m == nil || strings.Trim(m[2], "= \t") == "" {
		return nil
	}
	return m
}

func (c *mediaWiki) addCell(header bool, cell string) {
	attrs, content := splitCellAttrs(cell)
	span := ""
	for _, m := range mwCellSpan.FindAllStringSubmatch(attrs, -1) {
		span += " " + strings.ToLower(m[1]) + `="` + m[2] + `"`
	}
	c.table.addCell(header, span, c.inline(strings.TrimSpace(content)))
}

// closeTable emits the open table, if any. End of input closes a table
// left open by a missing |} marker.
func (c *mediaWiki) closeTable() {
	if c.table == nil {
		return
	}
	if html := c.table.render(); html != "" {
		c.w.emit(html)
	}
	c.table = nil
}

// splitCellAttrs separates "attrs | content". The separator is the first
// single pipe outside [[...]] whose prefix holds an attribute assignment.
func splitCellAttrs(cell string) (attrs, content string) {
	depth := 0
	for i := 0; i < len(cell); i++ {
		switch {
		case strings.HasPrefix(cell[i:], "[["):
			depth++
			i++
		case strings.HasPrefix(cell[i:], "]]") && depth > 0:
			depth--
			i++
		case cell[i] == '|' && depth == 0:
			if strings.Contains(cell[:i], "=") {
				return cell[:i], cell[i+1:]
			}
			return "", cell
		}
	}
	return "", cell
}

// splitPipes splits template arguments on pipes outside [[...]].
func splitPipes(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "[["):
			depth++
			i++
		case strings.HasPrefix(s[i:], "]]") && depth > 0:
			depth--
			i++
		case s[i] == '|' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// mwCell is one table cell; multi-line content keeps its line breaks.
type mwCell struct {
	header bool
	attrs  string
	lines  []string
}

// mwTable buffers a table until it closes.
type mwTable struct {
	caption string
	rows    []string
	cells   []mwCell
}

func (t *mwTable) addCell(header bool, attrs, html string) {
	t.cells = append(t.cells, mwCell{header: header, attrs: attrs, lines: []string{html}})
}

func (t *mwTable) hasCell() bool {
	return len(t.cells) > 0
}

func (t *mwTable) appendToCell(html string) {
	last := &t.cells[len(t.cells)-1]
	last.lines = append(last.lines, html)
}

func (t *mwTable) endRow() {
	if len(t.cells) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("<tr>")
	for _, cell := range t.cells {
		tag := "td"
		if cell.header {
			tag = "th"
		}
		b.WriteString("<" + tag + cell.attrs + ">" + strings.Join(cell.lines, "<br/>") + "</" + tag + ">")
	}
	b.WriteString("</tr>")
	t.rows = append(t.rows, b.String())
	t.cells = nil
}

func (t *mwTable) render() string {
	t.endRow()
	if len(t.rows) == 0 && t.caption == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<table class="wiki-table">`)
	if t.caption != "" {
		b.WriteString("<caption>" + t.caption + "</caption>")
	}
	for _, r := range t.rows {
		b.WriteString(r)
	}
	b.WriteString("</table>")
	return b.String()
}
