package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtector_Restore(t *testing.T) {
	t.Parallel()

	t.Run("inline span", func(t *testing.T) {
		t.Parallel()
		p := NewProtector()
		tok := p.Inline("<b>x</b>", "x")
		assert.Equal(t, "a <b>x</b> b", p.Restore("a "+tok+" b"))
	})

	t.Run("block span replaces its paragraph", func(t *testing.T) {
		t.Parallel()
		p := NewProtector()
		tok := p.Block("<div>d</div>", "d")
		assert.Equal(t, "<div>d</div>", p.Restore("<p> "+tok+" </p>"))
	})

	t.Run("inline span keeps its paragraph", func(t *testing.T) {
		t.Parallel()
		p := NewProtector()
		tok := p.Inline("<b>x</b>", "x")
		assert.Equal(t, "<p><b>x</b></p>", p.Restore("<p>"+tok+"</p>"))
	})

	t.Run("nested spans", func(t *testing.T) {
		t.Parallel()
		p := NewProtector()
		inner := p.Inline("<i>i</i>", "i")
		outer := p.Block("<div>"+inner+"</div>", "i")
		assert.Equal(t, "<div><i>i</i></div>", p.Restore(outer))
	})

	t.Run("unknown token and stray delimiter dropped", func(t *testing.T) {
		t.Parallel()
		p := NewProtector()
		assert.Equal(t, "abc", p.Restore("a\x00P99\x00b\x00c"))
	})
}

func TestProtector_Markup(t *testing.T) {
	t.Parallel()

	p := NewProtector()
	first := p.Markup("<br/>")
	second := p.Markup("<br/>")
	other := p.Markup("<hr/>")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Equal(t, 2, p.Len())
}

func TestProtector_Reveal(t *testing.T) {
	t.Parallel()

	p := NewProtector()
	code := p.Inline("<code>x</code>", "x")
	tag := p.Markup("<strong>")

	assert.Equal(t, "a x b", p.Reveal("a "+code+" "+tag+"b"))
}

func TestProtector_IsBlockLine(t *testing.T) {
	t.Parallel()

	p := NewProtector()
	block := p.Block("<pre></pre>", "")
	inline := p.Inline("<b></b>", "")

	tests := []struct {
		name string
		line string
		want bool
	}{
		{name: "block alone", line: block, want: true},
		{name: "block padded", line: "  " + block + "\t", want: true},
		{name: "inline alone", line: inline, want: false},
		{name: "block with text", line: "x" + block, want: false},
		{name: "no token", line: "text", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.IsBlockLine(tt.line))
		})
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	p := NewProtector()
	tok := p.Inline("<b>x</b>", "x")
	assert.Equal(t, "ab", Strip("a"+tok+"b"))
	assert.Equal(t, "ab", Strip("a\x00b"))
}

func TestProtector_Balance(t *testing.T) {
	t.Parallel()

	p := NewProtector()
	so, sc := p.Markup("<strong>"), p.Markup("</strong>")
	eo, ec := p.Markup("<em>"), p.Markup("</em>")
	br := p.Markup("<br/>")
	ref := p.Markup(`<sup><a href="#fn-1">[1]</a></sup>`)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "balanced kept", input: so + "x" + sc, want: "<strong>x</strong>"},
		{name: "nested kept", input: so + eo + "x" + ec + sc, want: "<strong><em>x</em></strong>"},
		{name: "overlap repaired", input: so + "a" + eo + "b" + sc + "c" + ec, want: "a<em>bc</em>"},
		{name: "lone close dropped", input: "a" + sc + "b", want: "ab"},
		{name: "unclosed open dropped", input: "a" + eo + "b", want: "ab"},
		{name: "void and complete elements ignored", input: br + ref, want: `<br/><sup><a href="#fn-1">[1]</a></sup>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.Restore(p.Balance(tt.input)))
		})
	}
}
