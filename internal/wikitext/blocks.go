package wikitext

import (
	"regexp"
	"strconv"
	"strings"
)

var horizontalRule = regexp.MustCompile(`^-{4,}\s*$`)

// blockKind names the persistent block states of the line machine.
type blockKind int

const (
	blockNone blockKind = iota
	blockParagraph
	blockList
	blockQuote
	blockTable
)

// listLevel is one open list in the nesting stack.
type listLevel struct {
	tag      string
	itemOpen bool
}

// blockWriter collects block-level output. Entering a state flushes every
// other open state first, so no structure is abandoned half-written.
type blockWriter struct {
	out []string

	para    []string
	paraSep string

	lists []listLevel
	list  strings.Builder

	quote []string

	// closeTable flushes the dialect's table state, if any.
	closeTable func()
}

func newBlockWriter(paraSep string) *blockWriter {
	return &blockWriter{paraSep: paraSep}
}

// enter flushes every open state except k.
func (w *blockWriter) enter(k blockKind) {
	if k != blockParagraph {
		w.flushParagraph()
	}
	if k != blockList {
		w.flushList()
	}
	if k != blockQuote {
		w.flushQuote()
	}
	if k != blockTable && w.closeTable != nil {
		w.closeTable()
	}
}

// emit appends a finished block.
func (w *blockWriter) emit(html string) {
	w.out = append(w.out, html)
}

// blank closes everything and records a paragraph break.
func (w *blockWriter) blank() {
	w.enter(blockNone)
	w.emit("")
}

// paragraph appends a rendered line to the open paragraph.
func (w *blockWriter) paragraph(html string) {
	w.enter(blockParagraph)
	w.para = append(w.para, html)
}

// textLine appends a text line to the open paragraph. Block tokens inside
// the line close the paragraph and stand on their own, so a figure or a
// quote never ends up inside <p>.
func (w *blockWriter) textLine(p *Protector, line string, inline func(string) string) {
	spans := p.BlockSpans(line)
	if len(spans) == 0 {
		w.paragraph(inline(line))
		return
	}
	last := 0
	for _, sp := range spans {
		if before := strings.TrimRight(line[last:sp[0]], " \t"); strings.TrimSpace(before) != "" {
			w.paragraph(inline(before))
		}
		w.enter(blockNone)
		w.emit(line[sp[0]:sp[1]])
		last = sp[1]
	}
	if rest := strings.TrimLeft(line[last:], " \t"); rest != "" {
		w.paragraph(inline(rest))
	}
}

func (w *blockWriter) flushParagraph() {
	if len(w.para) == 0 {
		return
	}
	w.emit("<p>" + strings.Join(w.para, w.paraSep) + "</p>")
	w.para = w.para[:0]
}

// listItem opens an item whose nesting is described by tags, one list tag
// per level. Levels whose tag differs from the open stack are closed and
// reopened, so a marker switch at the same depth starts a new list. A
// deeper list is nested inside the current item of its parent.
func (w *blockWriter) listItem(tags []string, html string) {
	w.enter(blockList)
	keep := 0
	for keep < len(w.lists) && keep < len(tags) && w.lists[keep].tag == tags[keep] {
		keep++
	}
	w.popLists(keep)
	for len(w.lists) < len(tags) {
		if n := len(w.lists); n > 0 && !w.lists[n-1].itemOpen {
			w.list.WriteString("<li>")
			w.lists[n-1].itemOpen = true
		}
		tag := tags[len(w.lists)]
		w.list.WriteString("<" + tag + ` class="wiki-list">`)
		w.lists = append(w.lists, listLevel{tag: tag})
	}
	top := &w.lists[len(w.lists)-1]
	if top.itemOpen {
		w.list.WriteString("</li>")
	}
	w.list.WriteString("<li>" + html)
	top.itemOpen = true
}

// popLists closes lists until depth remain open.
func (w *blockWriter) popLists(depth int) {
	for len(w.lists) > depth {
		top := w.lists[len(w.lists)-1]
		if top.itemOpen {
			w.list.WriteString("</li>")
		}
		w.list.WriteString("</" + top.tag + ">")
		w.lists = w.lists[:len(w.lists)-1]
	}
}

func (w *blockWriter) flushList() {
	if len(w.lists) == 0 {
		return
	}
	w.popLists(0)
	w.emit(w.list.String())
	w.list.Reset()
}

// quoteLine appends a rendered line to the open blockquote.
func (w *blockWriter) quoteLine(html string) {
	w.enter(blockQuote)
	w.quote = append(w.quote, html)
}

func (w *blockWriter) flushQuote() {
	if len(w.quote) == 0 {
		return
	}
	w.emit(`<blockquote class="wiki-quote">` + strings.Join(w.quote, "<br/>") + `</blockquote>`)
	w.quote = w.quote[:0]
}

// String closes every open state and joins the emitted blocks.
func (w *blockWriter) String() string {
	w.enter(blockNone)
	return strings.Join(w.out, "\n")
}

// indent renders a left-margin block for depth indentation markers.
func indent(depth int, html string) string {
	return `<div class="wiki-indent" style="margin-left:` + strconv.Itoa(depth*2) + `em">` + html + `</div>`
}

// repeatTag returns depth copies of tag.
func repeatTag(tag string, depth int) []string {
	tags := make([]string, depth)
	for i := range tags {
		tags[i] = tag
	}
	return tags
}
