package wiki2html

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-wiki2html/internal/assets"
	"github.com/alnah/go-wiki2html/internal/dateutil"
	"github.com/alnah/go-wiki2html/internal/fileutil"
	"github.com/alnah/go-wiki2html/internal/pipeline"
	"github.com/alnah/go-wiki2html/internal/wikitext"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.CSSInjector = (*pipeline.CSSInjection)(nil)
	_ pipeline.TOCInjector = (*pipeline.TOCInjection)(nil)
)

// Converter compiles wiki documents to HTML and renders standalone pages.
// Create with NewConverter. A Converter holds no per-call state and is
// safe for concurrent use.
type Converter struct {
	cfg               converterConfig
	assetLoader       assets.StyleLoader // internal loader
	publicAssetLoader AssetLoader        // public loader (from WithAssetLoader)
	highlighter       *pipeline.Highlighter
	sanitizer         *pipeline.Sanitizer
	cssInjector       pipeline.CSSInjector
	tocInjector       pipeline.TOCInjector
	log               *log.Logger
}

// NewConverter creates a Converter with default configuration:
// highlighting and sanitizing enabled, "/wiki/" link prefix, Korean date
// format, the built-in "default" page style.
// Returns error if an option value is invalid or the style cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			highlight:    true,
			sanitize:     true,
			maxInputSize: DefaultMaxInputSize,
		},
		assetLoader: assets.Builtin{},
		cssInjector: &pipeline.CSSInjection{},
		tocInjector: pipeline.NewTOCInjection(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.log = c.cfg.log
	if c.log == nil {
		c.log = log.New(io.Discard)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}
	if c.publicAssetLoader != nil {
		c.assetLoader = c.publicAssetLoader
	}

	if c.cfg.dateFormat != "" {
		layout, err := dateutil.Layout(c.cfg.dateFormat)
		if err != nil {
			return nil, fmt.Errorf("%w: date format: %v", ErrInvalidOption, err)
		}
		c.cfg.dateFormat = layout
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	if c.cfg.highlight {
		c.highlighter = pipeline.NewHighlighter(c.cfg.highlightStyle)
		css, err := c.highlighter.CSS()
		if err != nil {
			return nil, fmt.Errorf("%w: highlight style: %v", ErrInvalidOption, err)
		}
		c.cfg.highlightCSS = css
	}
	if c.cfg.sanitize {
		c.sanitizer = pipeline.NewSanitizer()
	}

	return c, nil
}

// Convert compiles input.Text to an HTML fragment. The empty text is
// valid and yields an empty fragment.
//
// Errors come only from the library boundary: ErrInputTooLarge,
// ErrUnknownFormat, ErrInvalidTOCDepth, context cancellation, and
// post-processing failures. Recovers from internal panics to prevent
// crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	format, err := c.validateInput(input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if format == FormatAuto {
		scores := wikitext.Score(input.Text)
		format = scores.Format()
		c.log.Debug("format detected",
			"title", input.Title,
			"format", format,
			"mediawiki_score", scores.MediaWiki,
			"namumark_score", scores.NamuMark)
	}

	compiled := wikitext.CompileAs(input.Text, format, c.compileOptions())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent := compiled.HTML
	if c.sanitizer != nil {
		htmlContent = c.sanitizer.Sanitize(htmlContent)
	}

	// Resolved sources may use file://, which the sanitizer would strip.
	if c.cfg.imageBase != "" {
		htmlContent, err = pipeline.ResolveImageSources(htmlContent, c.cfg.imageBase)
		if err != nil {
			return nil, fmt.Errorf("%w: resolving image sources: %v", ErrHTMLRewrite, err)
		}
	}

	htmlContent, err = c.tocInjector.InjectTOC(ctx, htmlContent, toTOCData(input.TOC))
	if err != nil {
		return nil, fmt.Errorf("injecting TOC: %w", err)
	}

	res := newResult(compiled)
	res.HTML = htmlContent
	c.log.Debug("compiled",
		"title", input.Title,
		"format", res.Format,
		"bytes", len(input.Text),
		"categories", len(res.Categories),
		"footnotes", len(res.Footnotes))
	return res, nil
}

// RenderPage converts input and wraps the fragment in a standalone HTML5
// document carrying the page style, the highlight stylesheet and
// input.CSS, in that order. The page is in Result.Document.
func (c *Converter) RenderPage(ctx context.Context, input Input) (*Result, error) {
	res, err := c.Convert(ctx, input)
	if err != nil {
		return nil, err
	}

	css := c.pageStyle(res.Format)
	if c.cfg.highlightCSS != "" {
		css += "\n" + c.cfg.highlightCSS
	}
	if input.CSS != "" {
		css += "\n" + input.CSS
	}

	page := pipeline.WrapDocument(input.Title, input.Lang, res.HTML)
	page = c.cssInjector.InjectCSS(ctx, page, css)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Document = page
	return res, nil
}

// compileOptions maps the converter configuration onto the compiler's.
func (c *Converter) compileOptions() wikitext.Options {
	opts := wikitext.Options{
		LinkPrefix: c.cfg.linkPrefix,
		DateLayout: c.cfg.dateFormat,
		Now:        c.cfg.now,
	}
	if c.highlighter != nil {
		opts.Highlight = c.highlighter.Highlight
	}
	return opts
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
// Without a style input, the dialect styles are loaded: the default style
// and the namu style for NamuMark pages.
// Called during NewConverter after options are applied and the asset loader is configured.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		css, err := assets.LoadPageStyle(c.assetLoader, string(FormatMediaWiki))
		if err != nil {
			return fmt.Errorf("loading style %q: %w", DefaultStyle, convertAssetError(err))
		}
		namu, err := assets.LoadPageStyle(c.assetLoader, string(FormatNamuMark))
		if err != nil {
			return fmt.Errorf("loading style %q: %w", assets.NamuStyleName, convertAssetError(err))
		}
		c.cfg.resolvedStyle, c.cfg.namuStyle = css, namu
		return nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	c.cfg.resolvedStyle = css
	return nil
}

// pageStyle returns the stylesheet for a page compiled from format. An
// explicit style applies to every page.
func (c *Converter) pageStyle(format Format) string {
	if format == FormatNamuMark && c.cfg.namuStyle != "" {
		return c.cfg.namuStyle
	}
	return c.cfg.resolvedStyle
}

// validateInput checks the size limit, the forced format and the TOC
// bounds, and returns the parsed format.
//
// This is the TRUST BOUNDARY for direct library users who build Input
// manually. CLI users have their config validated earlier by
// Config.Validate(); both paths converge here.
func (c *Converter) validateInput(input Input) (Format, error) {
	if len(input.Text) > c.cfg.maxInputSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(input.Text), c.cfg.maxInputSize)
	}
	format, err := ParseFormat(string(input.Format))
	if err != nil {
		return "", err
	}
	if err := input.TOC.Validate(); err != nil {
		return "", err
	}
	return format, nil
}

// toTOCData converts the public TOC type to internal pipeline.TOCData.
func toTOCData(t *TOC) *pipeline.TOCData {
	if t == nil {
		return nil
	}
	minDepth := t.MinDepth
	if minDepth == 0 {
		minDepth = DefaultTOCMinDepth
	}
	maxDepth := t.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultTOCMaxDepth
	}
	return &pipeline.TOCData{
		Title:    t.Title,
		MinDepth: minDepth,
		MaxDepth: maxDepth,
	}
}
