package wikitext

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	namuDirectives = regexp.MustCompile(`(?i)\[(?:목차|tableofcontents|각주|footnote)\]`)
	namuRedirect   = regexp.MustCompile(`(?i)^\s*#(?:redirect|넘겨주기)[ \t]+([^\n]+)`)

	namuSyntax = regexp.MustCompile(`(?s)\{\{\{#!syntax[ \t]+([\w+#.-]+)[^\n]*\n(.*?)\}\}\}`)
	namuHTML   = regexp.MustCompile(`(?is)\{\{\{#!html\b(.*?)\}\}\}`)

	namuWikiBlock = regexp.MustCompile(`(?s)^#!wiki\b[^\n]*\n?(.*)$`)
	namuColor     = regexp.MustCompile(`(?s)^#([0-9a-fA-F]{6}|[0-9a-fA-F]{3}|[A-Za-z]+)[ \t\n](.*)$`)
	namuSize      = regexp.MustCompile(`(?s)^([+-][1-5])[ \t\n](.*)$`)

	namuCategory = regexp.MustCompile(`\[\[(?:분류|[Cc]ategory):([^\[\]|\n]+)(?:\|[^\[\]\n]*)?\]\]`)
	namuImage    = regexp.MustCompile(`(?i)\[\[(?:파일|file|이미지|image):([^\[\]|\n]+)(?:\|([^\[\]\n]*))?\]\]`)
	namuAlign    = regexp.MustCompile(`(?i)(?:^|&)align=(left|center|right)\b`)
	namuFootnote = regexp.MustCompile(`\[\*([A-Za-z]?)[ \t]+((?:[^\[\]\n]|\[\[[^\[\]\n]*\]\])+)\]`)

	namuHeading = regexp.MustCompile(`^(={1,6})#?\s*(.+?)\s*#?={1,6}\s*$`)
	namuQuote   = regexp.MustCompile(`^>\s?(.*)$`)
	namuBullet  = regexp.MustCompile(`^( *)\*\s+(.*)$`)
	namuOrdered = regexp.MustCompile(`^( *)(?:\d+\.|#)\s+(.*)$`)

	namuBreak    = regexp.MustCompile(`(?i)\[br\]`)
	namuDate     = regexp.MustCompile(`(?i)\[date\]`)
	namuDateTime = regexp.MustCompile(`(?i)\[datetime\]`)
	namuDropped  = regexp.MustCompile(`(?i)\[(?:include|age)\([^)\n]*\)\]`)
	namuYouTube  = regexp.MustCompile(`(?i)\[youtube\([^)\n]*\)\]`)

	namuCellAttr = regexp.MustCompile(`^<([^<>\n]*)>`)
	namuColspan  = regexp.MustCompile(`^-(\d{1,3})$`)
	namuRowspan  = regexp.MustCompile(`^[v^]?\|(\d{1,3})$`)
	namuBgColor  = regexp.MustCompile(`(?i)^(?:bgcolor=#?|#)(?:([0-9a-f]{6}|[0-9a-f]{3})|([a-z]+))$`)
	namuTableKey = regexp.MustCompile(`(?i)^(?:table\w*|width|height|row\w*|col\w*|color)=`)
)

var (
	strikeTildeRule = wrapRule{regexp.MustCompile(`~~(.+?)~~`), []string{"del"}}
	strikeDashRule  = wrapRule{regexp.MustCompile(`--(.+?)--`), []string{"del"}}
	underlineRule   = wrapRule{regexp.MustCompile(`__(.+?)__`), []string{"u"}}
	superRule       = wrapRule{regexp.MustCompile(`\^\^(.+?)\^\^`), []string{"sup"}}
	subRule         = wrapRule{regexp.MustCompile(`,,(.+?),,`), []string{"sub"}}
)

// namuMark compiles the NamuMark-style dialect.
type namuMark struct {
	*document
	w       *blockWriter
	rows    []string
	pending []string
}

// CompileNamuMark compiles text as NamuMark markup.
func CompileNamuMark(text string, opts Options) Result {
	c := &namuMark{document: newDocument(opts)}
	c.w = newBlockWriter("<br/>")
	c.w.closeTable = c.closeTable

	text = normalize(text)
	text = c.stripDirectives(text)
	text = c.protect(text)
	text, _ = stripInnermost(text, "{{{", "}}}", c.braces)
	text = c.extractCategories(text)
	text = c.extractImages(text)
	text = c.extractFootnotes(text)
	c.parseBlocks(text)
	return c.finish(c.w.String(), FormatNamuMark)
}

func (c *namuMark) inline(s string) string {
	s = Escape(s)
	s = c.links(s)
	s = c.macros(s)
	s = c.wrap(s,
		boldItalicRule, boldRule, italicRule,
		strikeTildeRule, strikeDashRule, underlineRule, superRule, subRule,
	)
	return c.prot.Balance(s)
}

func (c *namuMark) macros(s string) string {
	if !strings.Contains(s, "[") {
		return s
	}
	now := c.opts.Now()
	s = namuBreak.ReplaceAllString(s, c.prot.Markup("<br/>"))
	s = namuDate.ReplaceAllLiteralString(s, Escape(now.Format(c.opts.DateLayout)))
	s = namuDateTime.ReplaceAllLiteralString(s, Escape(now.Format(c.opts.DateLayout+" 15:04:05")))
	s = namuDropped.ReplaceAllString(s, "")
	return namuYouTube.ReplaceAllLiteralString(s, c.prot.Markup(`<span class="wiki-placeholder">[YouTube]</span>`))
}

func (c *namuMark) stripDirectives(text string) string {
	text = namuDirectives.ReplaceAllString(text, "")
	if m := namuRedirect.FindStringSubmatchIndex(text); m != nil {
		c.redirect = strings.Trim(strings.TrimSpace(text[m[2]:m[3]]), "[]")
		esc := Escape(c.redirect)
		notice := c.prot.Block(`<div class="wiki-redirect">→ `+c.link(esc, esc)+`</div>`, c.redirect)
		text = text[:m[0]] + notice + text[m[1]:]
	}
	return text
}

func (c *namuMark) protect(text string) string {
	text = namuSyntax.ReplaceAllStringFunc(text, func(m string) string {
		sm := namuSyntax.FindStringSubmatch(m)
		return c.codeBlock(strings.ToLower(sm[1]), sm[2])
	})
	return namuHTML.ReplaceAllStringFunc(text, func(m string) string {
		body := strings.Trim(namuHTML.FindStringSubmatch(m)[1], " \t\n")
		return c.prot.Block(`<pre class="wiki-codeblock wiki-raw-html"><code>`+Escape(body)+`</code></pre>`, body)
	})
}

// braces interprets the body of one innermost {{{...}}}.
func (c *namuMark) braces(body string) string {
	if m := namuWikiBlock.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	if !strings.HasPrefix(body, "#!") {
		if m := namuColor.FindStringSubmatch(body); m != nil {
			return c.styled("color:"+cssColor(m[1]), m[2])
		}
		if m := namuSize.FindStringSubmatch(body); m != nil {
			step, _ := strconv.Atoi(m[1])
			return c.styled("font-size:"+fontScale(step)+"em", m[2])
		}
	}
	if !strings.Contains(body, "\n") {
		return c.inlineCode(body)
	}
	return c.codeBlock("", body)
}

// styled wraps every non-blank line of content in a styled span, keeping
// the line structure visible to the block parser.
func (c *namuMark) styled(style, content string) string {
	open, close := c.prot.Markup(`<span style="`+style+`">`), c.prot.Markup("</span>")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = open + l + close
		}
	}
	return strings.Join(lines, "\n")
}

// fontScale maps a size step to a relative font size: each step is 0.2em
// around 1em, clamped to [0.6, 3].
func fontScale(step int) string {
	tenths := min(max(10+2*step, 6), 30)
	return strconv.FormatFloat(float64(tenths)/10, 'f', -1, 64)
}

// cssColor renders a hex triplet/sextet or a color keyword.
func cssColor(v string) string {
	if _, err := strconv.ParseUint(v, 16, 32); err == nil && (len(v) == 3 || len(v) == 6) {
		return "#" + strings.ToLower(v)
	}
	return strings.ToLower(v)
}

func (c *namuMark) extractCategories(text string) string {
	return namuCategory.ReplaceAllStringFunc(text, func(m string) string {
		name := namuCategory.FindStringSubmatch(m)[1]
		c.addCategory(strings.TrimSuffix(strings.TrimSpace(name), "#blur"))
		return ""
	})
}

func (c *namuMark) extractImages(text string) string {
	return namuImage.ReplaceAllStringFunc(text, func(m string) string {
		sm := namuImage.FindStringSubmatch(m)
		src := strings.TrimSpace(c.prot.Reveal(sm[1]))
		class := "wiki-image"
		if a := namuAlign.FindStringSubmatch(sm[2]); a != nil {
			class += " wiki-image-" + strings.ToLower(a[1])
		}
		return c.prot.Block(`<figure class="`+class+`"><img src="`+Escape(src)+`" alt="`+Escape(src)+`" loading="lazy"/></figure>`, src)
	})
}

// extractFootnotes numbers every [* ...] in order. The optional label is
// accepted but not distinguished: same-labeled notes are not merged.
func (c *namuMark) extractFootnotes(text string) string {
	return namuFootnote.ReplaceAllStringFunc(text, func(m string) string {
		body := strings.TrimSpace(namuFootnote.FindStringSubmatch(m)[2])
		return c.addFootnote(body, c.inline(body))
	})
}

func (c *namuMark) parseBlocks(text string) {
	for _, line := range strings.Split(text, "\n") {
		c.parseLine(line)
	}
	c.abandonRow()
}

func (c *namuMark) parseLine(line string) {
	if c.pending != nil {
		switch {
		case rowClosed(line):
			c.pending = append(c.pending, line)
			c.completeRow()
			return
		case strings.TrimSpace(line) == "" || c.startsBlock(line):
			c.abandonRow()
		default:
			c.pending = append(c.pending, line)
			return
		}
	}

	heading := matchHeading(namuHeading, line)
	switch {
	case c.prot.IsBlockLine(line):
		c.w.enter(blockNone)
		c.w.emit(strings.TrimSpace(line))

	case horizontalRule.MatchString(line):
		c.w.enter(blockNone)
		c.w.emit(`<hr class="wiki-hr"/>`)

	case heading != nil:
		c.w.enter(blockNone)
		c.w.emit(c.heading(len(heading[1]), heading[2], c.inline(heading[2])))

	case namuQuote.MatchString(line):
		c.w.quoteLine(c.inline(namuQuote.FindStringSubmatch(line)[1]))

	case strings.HasPrefix(line, "||"):
		c.w.enter(blockTable)
		c.pending = []string{line}
		if len(strings.TrimRight(line, " \t")) >= 4 && rowClosed(line) {
			c.completeRow()
		}

	case namuBullet.MatchString(line):
		m := namuBullet.FindStringSubmatch(line)
		c.w.listItem(repeatTag("ul", max(1, len(m[1]))), c.inline(m[2]))

	case namuOrdered.MatchString(line):
		m := namuOrdered.FindStringSubmatch(line)
		c.w.listItem(repeatTag("ol", max(1, len(m[1]))), c.inline(m[2]))

	case strings.TrimSpace(line) == "":
		c.w.blank()

	default:
		c.w.textLine(c.prot, line, c.inline)
	}
}

// startsBlock reports whether line opens a block of its own and so cannot
// continue a multi-line table row.
func (c *namuMark) startsBlock(line string) bool {
	return c.prot.IsBlockLine(line) ||
		horizontalRule.MatchString(line) ||
		namuHeading.MatchString(line) ||
		namuQuote.MatchString(line) ||
		namuBullet.MatchString(line) ||
		namuOrdered.MatchString(line) ||
		strings.HasPrefix(line, "||")
}

func rowClosed(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t"), "||")
}

// completeRow renders the buffered row lines as one table row.
func (c *namuMark) completeRow() {
	raw := strings.TrimRight(strings.Join(c.pending, "\n"), " \t")
	c.pending = nil
	inner := raw[2 : len(raw)-2]

	var b strings.Builder
	span := 1
	for _, cell := range strings.Split(inner, "||") {
		if cell == "" {
			span++
			continue
		}
		b.WriteString(c.tableCell(cell, span))
		span = 1
	}
	if b.Len() > 0 {
		c.rows = append(c.rows, "<tr>"+b.String()+"</tr>")
	}
}

// abandonRow turns an unterminated row back into paragraph text. The
// caller then parses the line that ended it on its own.
func (c *namuMark) abandonRow() {
	lines := c.pending
	c.pending = nil
	for _, l := range lines {
		c.w.paragraph(c.inline(l))
	}
}

// tableCell renders one cell. Leading <...> groups set spans, alignment
// and background; padding spaces set alignment when none was given.
func (c *namuMark) tableCell(cell string, colspan int) string {
	rowspan := 1
	align, bg := "", ""
attrs:
	for {
		m := namuCellAttr.FindStringSubmatch(cell)
		if m == nil {
			break
		}
		a := strings.TrimSpace(m[1])
		switch {
		case namuColspan.MatchString(a):
			colspan, _ = strconv.Atoi(namuColspan.FindStringSubmatch(a)[1])
		case namuRowspan.MatchString(a):
			rowspan, _ = strconv.Atoi(namuRowspan.FindStringSubmatch(a)[1])
		case a == "(":
			align = "text-left"
		case a == ":":
			align = "text-center"
		case a == ")":
			align = "text-right"
		case namuBgColor.MatchString(a):
			sm := namuBgColor.FindStringSubmatch(a)
			bg = cssColor(sm[1] + sm[2])
		case namuTableKey.MatchString(a):
		default:
			break attrs
		}
		cell = cell[len(m[0]):]
	}
	if align == "" {
		switch {
		case strings.HasPrefix(cell, " ") && strings.HasSuffix(cell, " "):
			align = "text-center"
		case strings.HasSuffix(cell, " "):
			align = "text-left"
		case strings.HasPrefix(cell, " "):
			align = "text-right"
		}
	}

	lines := strings.Split(strings.TrimSpace(cell), "\n")
	for i, l := range lines {
		lines[i] = c.inline(strings.TrimSpace(l))
	}

	var b strings.Builder
	b.WriteString("<td")
	if align != "" {
		b.WriteString(` class="` + align + `"`)
	}
	if colspan > 1 {
		b.WriteString(` colspan="` + strconv.Itoa(colspan) + `"`)
	}
	if rowspan > 1 {
		b.WriteString(` rowspan="` + strconv.Itoa(rowspan) + `"`)
	}
	if bg != "" {
		b.WriteString(` style="background-color:` + bg + `"`)
	}
	b.WriteString(">" + strings.Join(lines, "<br/>") + "</td>")
	return b.String()
}

func (c *namuMark) closeTable() {
	if len(c.rows) == 0 {
		return
	}
	c.w.emit(`<table class="wiki-table">` + strings.Join(c.rows, "") + `</table>`)
	c.rows = nil
}
