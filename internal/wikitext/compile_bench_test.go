//go:build bench

package wikitext

import (
	"fmt"
	"strings"
	"testing"
)

// BenchmarkCompile measures detection plus compilation per dialect.
func BenchmarkCompile(b *testing.B) {
	inputs := []struct {
		name    string
		content string
	}{
		{"plain", strings.Repeat("Just a line of prose.\n\n", 50)},
		{"mediawiki_small", generateMediaWiki(5)},
		{"mediawiki_large", generateMediaWiki(200)},
		{"namumark_small", generateNamuMark(5)},
		{"namumark_large", generateNamuMark(200)},
		{"nested_templates", strings.Repeat("{{", 20000) + strings.Repeat("}}", 20000)},
		{"nested_braces", strings.Repeat("{{{", 20000) + strings.Repeat("}}}", 20000)},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(input.content)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = Compile(input.content, Options{})
			}
		})
	}
}

// BenchmarkDetect measures the detector alone.
func BenchmarkDetect(b *testing.B) {
	doc := generateMediaWiki(100)
	b.ReportAllocs()
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Detect(doc)
	}
}

func generateMediaWiki(sections int) string {
	var sb strings.Builder
	for i := 0; i < sections; i++ {
		fmt.Fprintf(&sb, "== Section %d ==\n", i)
		sb.WriteString("Some '''bold''' and ''italic'' text with a [[Link|label]]<ref>Note.</ref>.\n")
		sb.WriteString("{{Infobox|name={{lang|en|x}}}}\n")
		sb.WriteString("* one\n** two\n# three\n")
		sb.WriteString("{|\n! A !! B\n|-\n| 1 || 2\n|}\n")
		sb.WriteString("<syntaxhighlight lang=\"go\">fmt.Println(1)</syntaxhighlight>\n\n")
	}
	sb.WriteString("[[Category:Bench]]\n")
	return sb.String()
}

func generateNamuMark(sections int) string {
	var sb strings.Builder
	sb.WriteString("[목차]\n")
	for i := 0; i < sections; i++ {
		fmt.Fprintf(&sb, "== 문단 %d ==\n", i)
		sb.WriteString("'''굵게''' ~~취소~~ {{{+1 크게}}} [[문서|링크]][* 각주]\n")
		sb.WriteString("||<-2> 가운데 ||오른쪽||\n||a||b||\n")
		sb.WriteString(" * 하나\n  * 둘\n")
		sb.WriteString("{{{#!syntax python\nprint(1)\n}}}\n\n")
	}
	sb.WriteString("[[분류:벤치]]\n")
	return sb.String()
}
