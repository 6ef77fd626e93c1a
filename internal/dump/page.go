package dump

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// Page is one article read from a dump.
type Page struct {
	ID         int64
	Title      string
	Namespace  int
	Text       string
	RedirectTo string    // Target title when the page is a redirect
	CreatedAt  time.Time // Zero when the dump carries no timestamp
}

// IsRedirect reports whether the page only points at another title.
func (p Page) IsRedirect() bool {
	return p.RedirectTo != ""
}

// PageFunc receives each page in dump order. Returning ErrStop ends the
// read without error; any other error aborts it and is returned.
type PageFunc func(Page) error

// Layout identifies a dump file format.
type Layout string

const (
	LayoutMediaWikiXML Layout = "mediawiki-xml"
	LayoutNamuJSON     Layout = "namu-json"
)

var (
	mediaWikiRedirect = regexp.MustCompile(`(?i)#(?:넘겨주기|REDIRECT)\s*\[\[(.+?)\]\]`)
	namuRedirect      = regexp.MustCompile(`(?i)#(?:redirect|넘겨주기)\s+(.+)`)
)

// Sniff peeks at the first meaningful byte of r to tell the layouts
// apart: '<' is XML, '[' is JSON. The returned reader replays the peeked
// bytes.
func Sniff(r io.Reader) (Layout, io.Reader, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return "", br, fmt.Errorf("%w: empty input", ErrUnknownLayout)
			}
			return "", br, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
			continue
		case 0xEF: // UTF-8 byte order mark
			bom, err := br.Peek(3)
			if err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
				_, _ = br.Discard(3)
				continue
			}
		case '<':
			return LayoutMediaWikiXML, br, nil
		case '[':
			return LayoutNamuJSON, br, nil
		}
		return "", br, fmt.Errorf("%w: starts with %q", ErrUnknownLayout, b[0])
	}
}

// Read sniffs the layout of r and streams its pages to fn.
func Read(ctx context.Context, r io.Reader, fn PageFunc) (Layout, error) {
	layout, br, err := Sniff(r)
	if err != nil {
		return "", err
	}
	switch layout {
	case LayoutMediaWikiXML:
		return layout, ReadMediaWikiXML(ctx, br, fn)
	default:
		return layout, ReadNamuJSON(ctx, br, fn)
	}
}

func redirectTarget(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
