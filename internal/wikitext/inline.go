package wikitext

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Inline rules run on escaped text, so a quote delimiter is "&#039;".
const quote = `(?:&#039;)`

// wrapRule turns delimited text into nested elements, outermost first.
// Each tag is protected as its own token, so later rules never match
// inside them and Balance can repair overlaps.
type wrapRule struct {
	pattern *regexp.Regexp
	tags    []string
}

var (
	boldItalicRule = wrapRule{regexp.MustCompile(quote + `{5}(.+?)` + quote + `{5}`), []string{"strong", "em"}}
	boldRule       = wrapRule{regexp.MustCompile(quote + `{3}(.+?)` + quote + `{3}`), []string{"strong"}}
	italicRule     = wrapRule{regexp.MustCompile(quote + `{2}(.+?)` + quote + `{2}`), []string{"em"}}
)

var (
	linkWithText   = regexp.MustCompile(`\[\[([^\[\]|\n]+)\|([^\[\]\n]*)\]\]`)
	linkBare       = regexp.MustCompile(`\[\[([^\[\]|\n]+)\]\]`)
	extLinkText    = regexp.MustCompile(`\[(https?://[^\s\[\]\x00]+)[ \t]+([^\[\]\n]+)\]`)
	extLinkBare    = regexp.MustCompile(`\[(https?://[^\s\[\]\x00]+)\]`)
	urlScheme      = regexp.MustCompile(`(?i)^https?://`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	anchorStripper = regexp.MustCompile(`[^\w가-힣ㄱ-ㅎㅏ-ㅣ-]`)
)

// wrap applies rules in order.
func (d *document) wrap(s string, rules ...wrapRule) string {
	for _, r := range rules {
		if !r.pattern.MatchString(s) {
			continue
		}
		var open, close strings.Builder
		for i, tag := range r.tags {
			open.WriteString(d.prot.Markup("<" + tag + ">"))
			close.WriteString(d.prot.Markup("</" + r.tags[len(r.tags)-1-i] + ">"))
		}
		s = r.pattern.ReplaceAllString(s, open.String()+"${1}"+close.String())
	}
	return s
}

// links renders internal links (display form first) and then bracketed
// external links (text form first). s must already be escaped.
func (d *document) links(s string) string {
	s = linkWithText.ReplaceAllStringFunc(s, func(m string) string {
		sm := linkWithText.FindStringSubmatch(m)
		display := strings.TrimSpace(sm[2])
		if display == "" {
			display = strings.TrimSpace(strings.TrimLeft(sm[1], ":"))
		}
		return d.link(sm[1], display)
	})
	s = linkBare.ReplaceAllStringFunc(s, func(m string) string {
		target := linkBare.FindStringSubmatch(m)[1]
		return d.link(target, strings.TrimSpace(target))
	})
	s = extLinkText.ReplaceAllStringFunc(s, func(m string) string {
		sm := extLinkText.FindStringSubmatch(m)
		return d.externalLink(sm[1], strings.TrimSpace(sm[2]))
	})
	return extLinkBare.ReplaceAllStringFunc(s, func(m string) string {
		u := extLinkBare.FindStringSubmatch(m)[1]
		return d.externalLink(u, u)
	})
}

// link renders an internal link, or an external one when the target is a
// URL. Target and display are escaped text.
func (d *document) link(target, display string) string {
	target = strings.TrimSpace(target)
	if urlScheme.MatchString(target) {
		return d.externalLink(target, display)
	}
	href := d.internalHref(html.UnescapeString(Strip(target)))
	return d.prot.Markup(`<a class="wiki-link" href="`+Escape(href)+`">`) + display + d.prot.Markup("</a>")
}

// externalLink renders an http(s) link. rawURL is escaped text.
func (d *document) externalLink(rawURL, display string) string {
	href := html.UnescapeString(Strip(rawURL))
	return d.prot.Markup(`<a class="wiki-ext-link" href="`+Escape(href)+`" rel="noopener noreferrer">`) + display + d.prot.Markup("</a>")
}

// internalHref maps a page title, optionally with a #section, to a URL
// path under the configured prefix.
func (d *document) internalHref(title string) string {
	title = strings.TrimLeft(strings.TrimSpace(title), ":")
	page, section, hasSection := strings.Cut(title, "#")
	page = strings.TrimSpace(page)

	var b strings.Builder
	if page != "" {
		b.WriteString(d.opts.LinkPrefix)
		b.WriteString(url.PathEscape(page))
	}
	if hasSection {
		b.WriteString("#")
		b.WriteString(url.PathEscape(anchorID(section)))
	}
	return b.String()
}

// anchorID derives a heading id: whitespace runs become hyphens and
// everything outside word characters, Hangul and hyphen is dropped.
// Same-named headings share an id.
func anchorID(text string) string {
	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), "-")
	return anchorStripper.ReplaceAllString(text, "")
}

// heading renders a heading element. raw is the unescaped heading text and
// content its inline rendering.
func (d *document) heading(level int, raw, content string) string {
	level = min(max(level, 1), 6)
	l := strconv.Itoa(level)
	id := anchorID(d.prot.Reveal(raw))
	return `<h` + l + ` id="` + Escape(id) + `" class="wiki-heading wiki-h` + l + `">` + content + `</h` + l + `>`
}
