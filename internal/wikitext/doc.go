// Package wikitext compiles wiki markup into HTML fragments.
//
// Two dialects are supported, a MediaWiki-style syntax and a NamuMark-style
// syntax, plus a plain-text fallback for input that carries no dialect
// signal. The dialect is detected heuristically by [Score] and [Detect].
//
// Every compilation runs as an ordered pipeline over a per-call document:
//
//  1. Normalization (line endings, NFC, NUL removal)
//  2. No-op directive removal
//  3. Literal protection (nowiki, pre, code, syntax blocks)
//  4. Template/macro stripping, resolved innermost-first to a fixed point
//  5. Category extraction
//  6. Image extraction
//  7. Footnote extraction
//  8. Line-oriented block parsing (tables, lists, headings, quotes)
//  9. Inline formatting per text fragment
//  10. Footnote section assembly and placeholder restoration
//
// Text fragments are escaped before any inline rule runs, and every tag the
// compiler emits travels as an opaque placeholder token until the final
// restoration pass. Later rewriting passes therefore never see, and never
// re-match, markup produced by earlier ones.
//
// All state is local to one call: the package is safe for concurrent use.
package wikitext
