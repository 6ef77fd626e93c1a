package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks flag parsing and argument errors.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// compileFlags holds the flags that shape compilation, shared by render and dump.
type compileFlags struct {
	format         string
	linkPrefix     string
	dateFormat     string
	imageBase      string
	maxSize        int
	noSanitize     bool
	noHighlight    bool
	highlightStyle string
}

// pageFlags holds standalone page flags.
type pageFlags struct {
	standalone bool
	style      string // Name, path, or inline CSS
	assetPath  string // Override asset directory
	lang       string
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	minDepth int
	maxDepth int
	disabled bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	output  string
	workers int
	title   string
	text    bool // Write plain text instead of HTML
	json    bool // Write the full result as JSON
	compile compileFlags
	page    pageFlags
	toc     tocFlags
}

// detectFlags holds flags for the detect command.
type detectFlags struct {
	common commonFlags
	json   bool
}

// dumpFlags holds flags for the dump command.
type dumpFlags struct {
	common           commonFlags
	output           string
	workers          int
	namespaces       []string
	includeRedirects bool
	limit            int
	compile          compileFlags
	page             pageFlags
	toc              tocFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addCompileFlags adds compilation flags to a FlagSet.
func addCompileFlags(fs *flag.FlagSet, f *compileFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "wiki dialect: auto, mediawiki, namumark, plain")
	fs.StringVar(&f.linkPrefix, "link-prefix", "", "prefix for internal links (default \"/wiki/\")")
	fs.StringVar(&f.dateFormat, "date-format", "", "layout for the [date] macro: preset or tokens")
	fs.StringVar(&f.imageBase, "image-base", "", "URL or directory for relative image sources")
	fs.IntVar(&f.maxSize, "max-size", 0, "maximum input size in bytes (0 = config or 8 MiB)")
	fs.BoolVar(&f.noSanitize, "no-sanitize", false, "skip the HTML sanitizer")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code highlighting")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for code blocks")
}

// addPageFlags adds standalone page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "write full HTML5 documents instead of fragments")
	fs.StringVar(&f.style, "style", "", "page style name, CSS file path, or inline CSS")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.lang, "lang", "", "document language (default \"ko\")")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading depth for TOC (1-6, default: 1)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading depth for TOC (1-6, default: 3)")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable table of contents")
}

// newFlagSet creates a FlagSet whose usage goes to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseError wraps a parse failure so it maps to the usage exit code.
// A help request passes through untouched.
func parseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// renderFlagSet registers the render command flags. The same FlagSet
// feeds parsing and shell completion.
func renderFlagSet(w io.Writer) (*flag.FlagSet, *renderFlags) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.title, "title", "t", "", "page title (default: file name)")
	fs.BoolVar(&f.text, "text", false, "write plain text instead of HTML")
	fs.BoolVar(&f.json, "json", false, "write the result as JSON")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addCompileFlags(fs, &f.compile)
	addPageFlags(fs, &f.page)
	addTOCFlags(fs, &f.toc)
	return fs, f
}

// detectFlagSet registers the detect command flags.
func detectFlagSet(w io.Writer) (*flag.FlagSet, *detectFlags) {
	f := &detectFlags{}
	fs := newFlagSet("detect", w, printDetectUsage)

	fs.BoolVar(&f.json, "json", false, "print scores as JSON")
	addCommonFlags(fs, &f.common)
	return fs, f
}

// dumpFlagSet registers the dump command flags.
func dumpFlagSet(w io.Writer) (*flag.FlagSet, *dumpFlags) {
	f := &dumpFlags{}
	fs := newFlagSet("dump", w, printDumpUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringSliceVar(&f.namespaces, "ns", nil, "namespace numbers to render (default: all)")
	fs.BoolVar(&f.includeRedirects, "include-redirects", false, "render redirect pages too")
	fs.IntVarP(&f.limit, "limit", "n", 0, "stop after rendering n pages (0 = no limit)")

	addCommonFlags(fs, &f.common)
	addCompileFlags(fs, &f.compile)
	addPageFlags(fs, &f.page)
	addTOCFlags(fs, &f.toc)
	return fs, f
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	fs, f := renderFlagSet(w)
	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	if f.text && f.json {
		return nil, nil, fmt.Errorf("%w: --text and --json are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseDetectFlags parses detect command flags and returns positional args.
func parseDetectFlags(args []string, w io.Writer) (*detectFlags, []string, error) {
	fs, f := detectFlagSet(w)
	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseDumpFlags parses dump command flags and returns positional args.
func parseDumpFlags(args []string, w io.Writer) (*dumpFlags, []string, error) {
	fs, f := dumpFlagSet(w)
	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	if f.limit < 0 {
		return nil, nil, fmt.Errorf("%w: --limit must not be negative, got %d", ErrUsage, f.limit)
	}
	return f, fs.Args(), nil
}
