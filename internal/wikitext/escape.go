package wikitext

import "strings"

// htmlEscaper replaces the five HTML-significant characters in one pass,
// so an entity produced for '&' is never escaped twice within a call.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape returns s with &, <, >, " and ' replaced by their entities.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}
