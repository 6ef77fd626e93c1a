package dump

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mediaWikiExport = `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/" xml:lang="ko">
  <siteinfo>
    <sitename>위키</sitename>
  </siteinfo>
  <page>
    <title>서울</title>
    <ns>0</ns>
    <id>12345</id>
    <revision>
      <id>67890</id>
      <timestamp>2024-01-01T00:00:00Z</timestamp>
      <text xml:space="preserve">'''서울'''은 [[대한민국]]의 수도이다.</text>
    </revision>
  </page>
  <page>
    <title>Seoul</title>
    <ns>0</ns>
    <id>12346</id>
    <redirect title="서울" />
    <revision>
      <id>67891</id>
      <timestamp>2024-02-01T10:30:00Z</timestamp>
      <text xml:space="preserve">#REDIRECT [[서울]]</text>
    </revision>
  </page>
  <page>
    <title>분류:도시</title>
    <ns>14</ns>
    <id>12347</id>
    <revision>
      <id>1</id>
      <timestamp>2023-05-01T00:00:00Z</timestamp>
      <text>first</text>
    </revision>
    <revision>
      <id>2</id>
      <timestamp>2023-06-01T00:00:00Z</timestamp>
      <text>#넘겨주기 [[도시 목록]]</text>
    </revision>
  </page>
  <page>
    <title>No id</title>
    <ns>0</ns>
    <revision><text>orphan</text></revision>
  </page>
</mediawiki>`

func collect(t *testing.T, read func(context.Context, *strings.Reader, PageFunc) error, input string) []Page {
	t.Helper()
	var pages []Page
	err := read(context.Background(), strings.NewReader(input), func(p Page) error {
		pages = append(pages, p)
		return nil
	})
	require.NoError(t, err)
	return pages
}

func readXML(ctx context.Context, r *strings.Reader, fn PageFunc) error {
	return ReadMediaWikiXML(ctx, r, fn)
}

func readJSON(ctx context.Context, r *strings.Reader, fn PageFunc) error {
	return ReadNamuJSON(ctx, r, fn)
}

// ---------------------------------------------------------------------------
// MediaWiki XML
// ---------------------------------------------------------------------------

func TestReadMediaWikiXML(t *testing.T) {
	t.Parallel()

	pages := collect(t, readXML, mediaWikiExport)
	require.Len(t, pages, 3, "page without id is skipped")

	first := pages[0]
	assert.Equal(t, int64(12345), first.ID, "page id, not revision id")
	assert.Equal(t, "서울", first.Title)
	assert.Equal(t, 0, first.Namespace)
	assert.Equal(t, "'''서울'''은 [[대한민국]]의 수도이다.", first.Text)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.CreatedAt.UTC())
	assert.False(t, first.IsRedirect())

	redirect := pages[1]
	assert.True(t, redirect.IsRedirect())
	assert.Equal(t, "서울", redirect.RedirectTo)

	multi := pages[2]
	assert.Equal(t, 14, multi.Namespace)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), multi.CreatedAt.UTC(), "first revision timestamp")
	assert.Equal(t, "#넘겨주기 [[도시 목록]]", multi.Text, "last revision text")
	assert.Equal(t, "도시 목록", multi.RedirectTo)
}

func TestReadMediaWikiXML_RedirectIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	input := `<mediawiki><page><title>A</title><ns>0</ns><id>1</id>
<revision><text>#redirect[[B]]</text></revision></page></mediawiki>`

	pages := collect(t, readXML, input)
	require.Len(t, pages, 1)
	assert.Equal(t, "B", pages[0].RedirectTo)
	assert.True(t, pages[0].CreatedAt.IsZero())
}

func TestReadMediaWikiXML_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"unclosed page", `<mediawiki><page><title>A</title>`},
		{"non numeric id", `<mediawiki><page><title>A</title><ns>0</ns><id>x</id></page></mediawiki>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ReadMediaWikiXML(context.Background(), strings.NewReader(tt.input), func(Page) error { return nil })
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReadMediaWikiXML_Stop(t *testing.T) {
	t.Parallel()

	var n int
	err := ReadMediaWikiXML(context.Background(), strings.NewReader(mediaWikiExport), func(Page) error {
		n++
		return ErrStop
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReadMediaWikiXML_CallbackError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := ReadMediaWikiXML(context.Background(), strings.NewReader(mediaWikiExport), func(Page) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestReadMediaWikiXML_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ReadMediaWikiXML(ctx, strings.NewReader(mediaWikiExport), func(Page) error {
		t.Error("callback called after cancel")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// NamuWiki JSON
// ---------------------------------------------------------------------------

const namuDump = `[
  {"namespace": 0, "title": "나무", "text": "'''나무'''는 식물이다.", "contributors": ["a", "b"]},
  {"namespace": "0", "title": "Tree", "text": "  #redirect 나무  \n"},
  {"namespace": 0, "text": "untitled"},
  {"title": "틀:안내", "text": "[[분류:틀]]", "extra": {"nested": [1, 2]}}
]`

func TestReadNamuJSON(t *testing.T) {
	t.Parallel()

	pages := collect(t, readJSON, namuDump)
	require.Len(t, pages, 3, "object without title is skipped")

	assert.Equal(t, int64(1), pages[0].ID)
	assert.Equal(t, "나무", pages[0].Title)
	assert.Equal(t, "'''나무'''는 식물이다.", pages[0].Text)
	assert.False(t, pages[0].IsRedirect())
	assert.True(t, pages[0].CreatedAt.IsZero())

	assert.Equal(t, int64(2), pages[1].ID)
	assert.Equal(t, "나무", pages[1].RedirectTo, "string namespace and trimmed target")

	assert.Equal(t, int64(3), pages[2].ID, "skipped objects do not consume ids")
	assert.Equal(t, 0, pages[2].Namespace, "missing namespace defaults to 0")
}

func TestReadNamuJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrNotArray},
		{"object at top level", `{"title": "x"}`, ErrNotArray},
		{"truncated array", `[{"title": "x"}`, ErrMalformed},
		{"bad namespace", `[{"title": "x", "namespace": "main"}]`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ReadNamuJSON(context.Background(), strings.NewReader(tt.input), func(Page) error { return nil })
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadNamuJSON_Stop(t *testing.T) {
	t.Parallel()

	var titles []string
	err := ReadNamuJSON(context.Background(), strings.NewReader(namuDump), func(p Page) error {
		titles = append(titles, p.Title)
		if len(titles) == 2 {
			return ErrStop
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"나무", "Tree"}, titles)
}

// ---------------------------------------------------------------------------
// Sniff / Read
// ---------------------------------------------------------------------------

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Layout
		wantErr bool
	}{
		{"xml", "<mediawiki/>", LayoutMediaWikiXML, false},
		{"xml after whitespace", "\n\t <?xml version=\"1.0\"?>", LayoutMediaWikiXML, false},
		{"json", "[]", LayoutNamuJSON, false},
		{"json after bom", "\ufeff[]", LayoutNamuJSON, false},
		{"empty", "   ", "", true},
		{"other", "title: x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := Sniff(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownLayout)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_DispatchesOnLayout(t *testing.T) {
	t.Parallel()

	var titles []string
	fn := func(p Page) error {
		titles = append(titles, p.Title)
		return nil
	}

	layout, err := Read(context.Background(), strings.NewReader(mediaWikiExport), fn)
	require.NoError(t, err)
	assert.Equal(t, LayoutMediaWikiXML, layout)

	layout, err = Read(context.Background(), strings.NewReader("  "+namuDump), fn)
	require.NoError(t, err)
	assert.Equal(t, LayoutNamuJSON, layout)

	assert.Equal(t, []string{"서울", "Seoul", "분류:도시", "나무", "Tree", "틀:안내"}, titles)
}
