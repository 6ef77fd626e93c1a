package wiki2html

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// TOC depth bounds.
const (
	DefaultTOCMinDepth = 1
	DefaultTOCMaxDepth = 3
	MaxTOCDepth        = 6
)

// DefaultMaxInputSize bounds the text of a single conversion (8 MiB).
const DefaultMaxInputSize = 8 << 20

// Input contains conversion parameters.
type Input struct {
	Text   string // Wiki source (empty is valid and yields an empty fragment)
	Format Format // Dialect to compile as; FormatAuto detects it
	Title  string // Page title, used by RenderPage
	Lang   string // Document language for RenderPage (default "ko")
	CSS    string // Extra CSS appended after the page style (RenderPage only)
	TOC    *TOC   // Table of contents (optional)
}

// TOC configures the table of contents placed before the first block.
type TOC struct {
	Title    string // Heading above the list; empty for none
	MinDepth int    // Shallowest heading level listed (0 = 1)
	MaxDepth int    // Deepest heading level listed (0 = 3)
}

// Validate checks the depth bounds. Returns nil if t is nil.
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	if t.MinDepth < 0 || t.MinDepth > MaxTOCDepth {
		return fmt.Errorf("%w: minDepth %d (must be 0-%d)", ErrInvalidTOCDepth, t.MinDepth, MaxTOCDepth)
	}
	if t.MaxDepth < 0 || t.MaxDepth > MaxTOCDepth {
		return fmt.Errorf("%w: maxDepth %d (must be 0-%d)", ErrInvalidTOCDepth, t.MaxDepth, MaxTOCDepth)
	}
	if t.MinDepth > 0 && t.MaxDepth > 0 && t.MinDepth > t.MaxDepth {
		return fmt.Errorf("%w: minDepth %d exceeds maxDepth %d", ErrInvalidTOCDepth, t.MinDepth, t.MaxDepth)
	}
	return nil
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	highlight      bool
	highlightStyle string
	sanitize       bool
	linkPrefix     string
	dateFormat     string
	now            func() time.Time
	maxInputSize   int
	styleInput     string // name, path, or CSS content
	resolvedStyle  string // CSS content after resolution
	namuStyle      string // NamuMark page style, set only without a style input
	highlightCSS   string // chroma stylesheet for the highlight style
	assetPath      string
	imageBase      string
	log            *log.Logger
}

// WithHighlighting enables or disables chroma highlighting of code blocks
// that name a language. Enabled by default.
func WithHighlighting(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.highlight = enabled
	}
}

// WithHighlightStyle sets the chroma style (e.g. "github", "monokai").
// Unknown names fall back to chroma's default style.
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithSanitizer enables or disables the HTML sanitizer pass over compiled
// output. Enabled by default.
func WithSanitizer(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.sanitize = enabled
	}
}

// WithLinkPrefix sets the prefix of internal wiki links (default "/wiki/").
func WithLinkPrefix(prefix string) Option {
	return func(c *Converter) {
		c.cfg.linkPrefix = prefix
	}
}

// WithDateFormat sets the format of the NamuMark [date] macro, as a preset
// name ("iso", "european", "us", "long", "korean") or date tokens
// ("YYYY-MM-DD"). NewConverter reports an invalid format.
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.dateFormat = format
	}
}

// WithClock sets the time source of date macros.
// Panics if now is nil (programmer error).
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("wiki2html: WithClock requires a non-nil function")
	}
	return func(c *Converter) {
		c.cfg.now = now
	}
}

// WithMaxInputSize sets the largest accepted input in bytes.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithMaxInputSize(n int) Option {
	if n <= 0 {
		panic("wiki2html: WithMaxInputSize size must be positive")
	}
	return func(c *Converter) {
		c.cfg.maxInputSize = n
	}
}

// WithLogger sets the logger used for debug events. By default nothing is
// logged.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		c.cfg.log = l
	}
}

// WithStyle sets the stylesheet of standalone pages: a style name
// ("default", "namu"), a file path, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles/ override the built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom style loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = loader
	}
}

// WithImageBase sets the URL or directory that relative image sources
// are resolved against.
func WithImageBase(base string) Option {
	return func(c *Converter) {
		c.cfg.imageBase = base
	}
}
