package dump

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"
)

// xmlPage mirrors the <page> element of a MediaWiki export. Pointers tell
// a missing element apart from an empty one.
type xmlPage struct {
	Title     *string       `xml:"title"`
	Namespace *int          `xml:"ns"`
	ID        *int64        `xml:"id"`
	Revisions []xmlRevision `xml:"revision"`
}

type xmlRevision struct {
	Timestamp string `xml:"timestamp"`
	Text      string `xml:"text"`
}

// ReadMediaWikiXML streams the pages of a MediaWiki XML export to fn.
//
// The page id is the <page> id, never a revision id. CreatedAt comes from
// the first revision, Text from the last. Pages without an id, title or
// namespace are skipped.
func ReadMediaWikiXML(ctx context.Context, r io.Reader, fn PageFunc) error {
	dec := xml.NewDecoder(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}

		var raw xmlPage
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return fmt.Errorf("%w: page: %v", ErrMalformed, err)
		}
		page, ok := raw.page()
		if !ok {
			continue
		}
		if err := fn(page); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

func (x xmlPage) page() (Page, bool) {
	if x.ID == nil || x.Title == nil || x.Namespace == nil {
		return Page{}, false
	}
	p := Page{ID: *x.ID, Title: *x.Title, Namespace: *x.Namespace}
	if n := len(x.Revisions); n > 0 {
		p.Text = x.Revisions[n-1].Text
		// An unparsable timestamp leaves CreatedAt zero.
		if ts, err := time.Parse(time.RFC3339, x.Revisions[0].Timestamp); err == nil {
			p.CreatedAt = ts
		}
	}
	p.RedirectTo = redirectTarget(mediaWikiRedirect, p.Text)
	return p, true
}
