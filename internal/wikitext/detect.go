package wikitext

import (
	"regexp"
	"unicode/utf8"
)

// Format identifies the markup dialect of a document.
type Format string

// Supported formats.
const (
	FormatMediaWiki Format = "mediawiki"
	FormatNamuMark  Format = "namumark"
	FormatPlain     Format = "plain"
)

// String implements fmt.Stringer.
func (f Format) String() string { return string(f) }

// minDetectLength is the rune count below which input is always plain.
const minDetectLength = 10

// signal is one boolean pattern check contributing weight to a dialect.
// Weights run from 1 (shared with prose or the other dialect) to 3
// (unambiguous for the dialect).
type signal struct {
	pattern *regexp.Regexp
	weight  int
}

var mediaWikiSignals = []signal{
	{regexp.MustCompile(`\{\|`), 3},
	{regexp.MustCompile(`\|\}`), 3},
	{regexp.MustCompile(`(?i)<ref[\s>]`), 3},
	{regexp.MustCompile(`(?i)<references`), 3},
	{regexp.MustCompile(`(?i)<nowiki>`), 3},
	{regexp.MustCompile(`(?i)<source[\s>]`), 2},
	{regexp.MustCompile(`(?i)<syntaxhighlight`), 2},
	{regexp.MustCompile(`\{\{[^{]`), 2},
	{regexp.MustCompile(`(?i)\[\[Category:`), 2},
	{regexp.MustCompile(`(?i)#(?:REDIRECT|넘겨주기)`), 2},
	{regexp.MustCompile(`<!--`), 1},
	{regexp.MustCompile(`(?m)^#+\s`), 1},
}

var namuMarkSignals = []signal{
	{regexp.MustCompile(`\[목차\]`), 3},
	{regexp.MustCompile(`\[각주\]`), 3},
	{regexp.MustCompile(`\[include\(`), 3},
	{regexp.MustCompile(`\{\{\{[+\-]\d`), 3},
	{regexp.MustCompile(`\{\{\{#[0-9a-fA-F]`), 3},
	{regexp.MustCompile(`\|\|.+\|\|`), 2},
	{regexp.MustCompile(`\[\*\s`), 2},
	{regexp.MustCompile(`(?i)\[br\]`), 2},
	{regexp.MustCompile(`(?m)^=\s+.+\s+=\s*$`), 2},
	{regexp.MustCompile(`~~.+?~~`), 1},
	{regexp.MustCompile(`__[^_]+__`), 1},
}

// Verdict holds the per-dialect detector scores for one document.
type Verdict struct {
	MediaWiki int
	NamuMark  int
}

// Format applies the decision rule: both scores zero is plain, the strictly
// higher score wins, and an exact tie goes to MediaWiki.
func (v Verdict) Format() Format {
	switch {
	case v.MediaWiki == 0 && v.NamuMark == 0:
		return FormatPlain
	case v.NamuMark > v.MediaWiki:
		return FormatNamuMark
	default:
		return FormatMediaWiki
	}
}

// Score sums the weights of the signals present in text. Input shorter than
// ten runes scores zero for both dialects.
func Score(text string) Verdict {
	if utf8.RuneCountInString(text) < minDetectLength {
		return Verdict{}
	}
	text = crlfOrCR.ReplaceAllString(text, "\n")
	return Verdict{
		MediaWiki: sumSignals(mediaWikiSignals, text),
		NamuMark:  sumSignals(namuMarkSignals, text),
	}
}

// Detect classifies text as MediaWiki, NamuMark or plain.
func Detect(text string) Format {
	return Score(text).Format()
}

func sumSignals(signals []signal, text string) int {
	total := 0
	for _, s := range signals {
		if s.pattern.MatchString(text) {
			total += s.weight
		}
	}
	return total
}
