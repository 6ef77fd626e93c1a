//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkInjectCSS benchmarks stylesheet injection, which runs on every
// standalone page.
func BenchmarkInjectCSS(b *testing.B) {
	injector := &CSSInjection{}
	ctx := context.Background()

	page := WrapDocument("Bench", "ko", generateWikiHTML(50))
	smallCSS := "body { margin: 0; }"
	largeCSS := strings.Repeat(".wiki-table td { padding: 4px; border: 1px solid #ccc; }\n", 100)

	inputs := []struct {
		name string
		css  string
	}{
		{"small_css", smallCSS},
		{"large_css", largeCSS},
		{"empty_css", ""},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = injector.InjectCSS(ctx, page, input.css)
			}
		})
	}
}

// BenchmarkInjectTOC benchmarks heading extraction and TOC rendering.
func BenchmarkInjectTOC(b *testing.B) {
	injector := NewTOCInjection()
	ctx := context.Background()
	data := &TOCData{Title: "목차", MaxDepth: 4}

	for _, n := range []int{10, 100} {
		html := generateWikiHTML(n)
		b.Run(fmt.Sprintf("sections_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = injector.InjectTOC(ctx, html, data)
			}
		})
	}
}

// BenchmarkSanitize benchmarks the bluemonday policy over compiled output.
func BenchmarkSanitize(b *testing.B) {
	s := NewSanitizer()
	html := generateWikiHTML(100)

	b.ReportAllocs()
	b.SetBytes(int64(len(html)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = s.Sanitize(html)
	}
}

// BenchmarkHighlight benchmarks chroma on a short Go snippet.
func BenchmarkHighlight(b *testing.B) {
	h := NewHighlighter(DefaultHighlightStyle)
	code := strings.Repeat("func main() {\n\tfmt.Println(\"hello\")\n}\n", 20)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = h.Highlight("go", code)
	}
}

// BenchmarkPlainText benchmarks text extraction.
func BenchmarkPlainText(b *testing.B) {
	html := generateWikiHTML(100)

	b.ReportAllocs()
	b.SetBytes(int64(len(html)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = PlainText(html)
	}
}

func generateWikiHTML(sections int) string {
	var sb strings.Builder
	for i := 0; i < sections; i++ {
		fmt.Fprintf(&sb, `<h2 id="s%d" class="wiki-heading wiki-h2">Section %d</h2>`, i, i)
		sb.WriteString(`<p>Text with <strong>bold</strong> and a <a class="wiki-link" href="/wiki/X">link</a>.</p>`)
		fmt.Fprintf(&sb, `<h3 id="s%d-1" class="wiki-heading wiki-h3">Sub</h3>`, i)
		sb.WriteString(`<table class="wiki-table"><tr><td colspan="2">a</td></tr></table>`)
	}
	return sb.String()
}
