package wikitext

// Compile detects the dialect of text and compiles it accordingly. It is
// total: any input, including the empty string, yields a Result.
func Compile(text string, opts Options) Result {
	return CompileAs(text, Detect(text), opts)
}

// CompileAs compiles text as the given format. Unknown formats fall back
// to plain text.
func CompileAs(text string, format Format, opts Options) Result {
	switch format {
	case FormatMediaWiki:
		return CompileMediaWiki(text, opts)
	case FormatNamuMark:
		return CompileNamuMark(text, opts)
	default:
		return CompilePlain(text)
	}
}

// ParseFormat maps a format name to a Format. "auto" and the empty string
// map to the empty Format, which asks for detection.
func ParseFormat(name string) (Format, bool) {
	switch Format(name) {
	case FormatMediaWiki, FormatNamuMark, FormatPlain:
		return Format(name), true
	case "", "auto":
		return "", true
	}
	return "", false
}
