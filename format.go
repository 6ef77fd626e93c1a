package wiki2html

import (
	"fmt"
	"strings"

	"github.com/alnah/go-wiki2html/internal/wikitext"
)

// Format identifies the markup dialect of a document.
type Format = wikitext.Format

// Supported formats. FormatAuto asks the converter to detect the dialect.
const (
	FormatAuto      Format = ""
	FormatMediaWiki Format = wikitext.FormatMediaWiki
	FormatNamuMark  Format = wikitext.FormatNamuMark
	FormatPlain     Format = wikitext.FormatPlain
)

// FormatNames lists the names accepted by ParseFormat.
var FormatNames = []string{"auto", "mediawiki", "namumark", "plain"}

// ParseFormat maps a format name (case-insensitive) to a Format. "auto"
// and the empty string return FormatAuto.
func ParseFormat(name string) (Format, error) {
	f, ok := wikitext.ParseFormat(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return "", fmt.Errorf("%w: %q (must be one of %s)", ErrUnknownFormat, name, strings.Join(FormatNames, ", "))
	}
	return f, nil
}

// Scores holds the per-dialect detector scores of a document.
type Scores struct {
	MediaWiki int `json:"mediawiki"`
	NamuMark  int `json:"namumark"`
}

// Format applies the detection rule to the scores: no signal is plain,
// the higher score wins, and a tie goes to MediaWiki.
func (s Scores) Format() Format {
	return wikitext.Verdict{MediaWiki: s.MediaWiki, NamuMark: s.NamuMark}.Format()
}

// Score returns the detector scores of text.
func Score(text string) Scores {
	v := wikitext.Score(text)
	return Scores{MediaWiki: v.MediaWiki, NamuMark: v.NamuMark}
}

// Detect classifies text as MediaWiki, NamuMark or plain.
func Detect(text string) Format {
	return wikitext.Detect(text)
}

// Compile detects the dialect of text and compiles it with default
// options. It never fails; use a Converter for highlighting, sanitizing
// and size limits.
func Compile(text string) *Result {
	return newResult(wikitext.Compile(text, wikitext.Options{}))
}
