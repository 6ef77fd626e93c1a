package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// namuPage mirrors one object of the NamuWiki dump array. Contributors
// and unknown fields are ignored.
type namuPage struct {
	Namespace namespace `json:"namespace"`
	Title     *string   `json:"title"`
	Text      string    `json:"text"`
}

// namespace accepts both 0 and "0"; published dumps have used either.
type namespace int

func (n *namespace) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("namespace %s: %w", data, err)
	}
	*n = namespace(v)
	return nil
}

// ReadNamuJSON streams the pages of a NamuWiki JSON dump to fn.
//
// The dump carries no ids, so pages are numbered from 1 in the order they
// are read. Objects without a title are skipped and do not consume an id.
func ReadNamuJSON(ctx context.Context, r io.Reader, fn PageFunc) error {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty input", ErrNotArray)
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return ErrNotArray
	}

	var seq int64
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var raw namuPage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: page %d: %v", ErrMalformed, seq+1, err)
		}
		if raw.Title == nil {
			continue
		}

		seq++
		page := Page{
			ID:         seq,
			Title:      *raw.Title,
			Namespace:  int(raw.Namespace),
			Text:       raw.Text,
			RedirectTo: redirectTarget(namuRedirect, strings.TrimSpace(raw.Text)),
		}
		if err := fn(page); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
