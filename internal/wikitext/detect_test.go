package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{name: "empty", input: "", want: FormatPlain},
		{name: "two runes", input: "ab", want: FormatPlain},
		{name: "short with markup", input: "{{x}}", want: FormatPlain},
		{name: "prose", input: "Hello world, nothing special here.", want: FormatPlain},
		{
			name:  "mediawiki table and ref",
			input: "{| class=wikitable\n| a<ref>b</ref>\n|}",
			want:  FormatMediaWiki,
		},
		{
			name:  "mediawiki template and category",
			input: "{{Infobox}}\nText.\n[[Category:Things]]",
			want:  FormatMediaWiki,
		},
		{
			name:  "namumark toc and table",
			input: "[목차]\n== 개요 ==\n||a||b||",
			want:  FormatNamuMark,
		},
		{
			name:  "namumark size and footnote",
			input: "{{{+1 큰 글씨}}} 본문[* 각주]",
			want:  FormatNamuMark,
		},
		{
			name:  "crlf namumark",
			input: "~~취소선~~\r\n= 제목 =\r\n",
			want:  FormatNamuMark,
		},
		{
			name:  "tie goes to mediawiki",
			input: "{{foo}} and ||a||b||",
			want:  FormatMediaWiki,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Detect(tt.input))
		})
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Verdict{}, Score("ab"))
	assert.Equal(t, Verdict{MediaWiki: 2, NamuMark: 2}, Score("{{foo}} and ||a||b||"))
	assert.Equal(t, Verdict{MediaWiki: 6}, Score("{|\n| cell\n|}"))
}

func TestVerdict_Format(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatPlain, Verdict{}.Format())
	assert.Equal(t, FormatMediaWiki, Verdict{MediaWiki: 1}.Format())
	assert.Equal(t, FormatNamuMark, Verdict{MediaWiki: 2, NamuMark: 3}.Format())
	assert.Equal(t, FormatMediaWiki, Verdict{MediaWiki: 3, NamuMark: 3}.Format())
}

func TestDetect_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "ab", "plain prose text", "{{a}}{{b}} ||x||y||", "[목차] [* n] {{{+1 x}}}"}
	for _, in := range inputs {
		assert.Equal(t, Detect(in), Detect(in), "input %q", in)
	}
}
