// Package wiki2html compiles wiki markup to HTML.
//
// Two dialects are understood, MediaWiki and NamuMark, plus a plain-text
// fallback. The dialect of a document is detected heuristically unless
// the caller forces one.
//
// # Quick Start
//
// For one-off compilation with default options, use Compile:
//
//	res := wiki2html.Compile("== History ==\n'''Seoul''' is a [[city]].\n[[Category:Cities]]")
//	fmt.Println(res.Format) // mediawiki
//	fmt.Println(res.HTML)
//
// Compile never fails: any input, including the empty string, yields a
// Result.
//
// # Converter
//
// A Converter adds code highlighting, HTML sanitizing, size limits and
// standalone page rendering:
//
//	conv, err := wiki2html.NewConverter(
//	    wiki2html.WithHighlightStyle("monokai"),
//	    wiki2html.WithLinkPrefix("/w/"),
//	    wiki2html.WithDateFormat("iso"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := conv.RenderPage(ctx, wiki2html.Input{
//	    Text:  source,
//	    Title: "Seoul",
//	    TOC:   &wiki2html.TOC{Title: "Contents"},
//	})
//	os.WriteFile("seoul.html", []byte(res.Document), 0o644)
//
// Convert returns the HTML fragment only; RenderPage also fills
// Result.Document with a complete HTML5 page carrying the page style and
// the highlight stylesheet.
//
// # Conversion Pipeline
//
//  1. Format detection (unless Input.Format forces one)
//  2. Compilation of the dialect into an HTML fragment
//  3. Sanitizing with a wiki-aware bluemonday policy
//  4. Image source resolution against WithImageBase
//  5. Table of contents injection (if Input.TOC is set)
//  6. Page wrapping and CSS injection (RenderPage only)
//
// # Detection
//
// Score reports how strongly a text matches each dialect and Detect
// applies the decision rule: no signal is plain, the higher score wins,
// a tie goes to MediaWiki. Input shorter than ten characters is plain.
//
// # Custom Assets
//
// Override built-in styles using AssetLoader:
//
//	loader, err := wiki2html.NewAssetLoader("/path/to/assets")
//	conv, err := wiki2html.NewConverter(wiki2html.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	└── styles/
//	    └── custom.css
package wiki2html
