package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrReadInput       = errors.New("failed to read input")
	ErrWriteOutput     = errors.New("failed to write output")
	ErrCreateOutputDir = errors.New("failed to create output directory")
	ErrRenderFailed    = errors.New("some documents failed to render")
)

// Renderer is the part of the converter the CLI depends on.
type Renderer interface {
	Convert(ctx context.Context, input wiki2html.Input) (*wiki2html.Result, error)
	RenderPage(ctx context.Context, input wiki2html.Input) (*wiki2html.Result, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*wiki2html.Converter)(nil)

// outputMode selects what is written for each document.
type outputMode int

const (
	modeHTML outputMode = iota
	modeText
	modeJSON
)

// ext returns the output file extension, without the dot.
func (m outputMode) ext() string {
	switch m {
	case modeText:
		return "txt"
	case modeJSON:
		return "json"
	default:
		return "html"
	}
}

// renderParams holds the settings shared by every document of a run.
type renderParams struct {
	format     wiki2html.Format // Forced dialect; FormatAuto defers to the extension, then detection
	mode       outputMode
	standalone bool
	title      string // Overrides the file-name title when set
	lang       string
	toc        *wiki2html.TOC
}

// RenderResult holds the outcome of a single document.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Format     wiki2html.Format
	Err        error
	Duration   time.Duration
}

// renderBatch processes files concurrently. The Renderer is shared, since
// the converter is safe for concurrent use.
func renderBatch(ctx context.Context, r Renderer, workers int, files []FileToRender, params *renderParams) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(files) {
		concurrency = len(files)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, r Renderer, f FileToRender, params *renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadInput, err))
	}

	format := params.format
	if format == wiki2html.FormatAuto {
		format = formatForPath(f.InputPath)
	}
	title := params.title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(f.InputPath), filepath.Ext(f.InputPath))
	}

	data, res, err := renderDocument(ctx, r, wiki2html.Input{
		Text:   string(content),
		Format: format,
		Title:  title,
		Lang:   params.lang,
		TOC:    params.toc,
	}, params)
	if err != nil {
		return fail(err)
	}
	result.Format = res.Format

	if err := writeOutput(f.OutputPath, data); err != nil {
		return fail(err)
	}

	result.Duration = time.Since(start)
	return result
}

// renderDocument compiles one document and encodes it per the output mode.
func renderDocument(ctx context.Context, r Renderer, input wiki2html.Input, params *renderParams) ([]byte, *wiki2html.Result, error) {
	render := r.Convert
	if params.standalone {
		render = r.RenderPage
	}
	res, err := render(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	switch params.mode {
	case modeText:
		text, err := res.PlainText()
		if err != nil {
			return nil, nil, fmt.Errorf("extracting text: %w", err)
		}
		return []byte(text + "\n"), res, nil
	case modeJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, nil, fmt.Errorf("encoding result: %w", err)
		}
		return append(data, '\n'), res, nil
	default:
		if params.standalone {
			return []byte(res.Document), res, nil
		}
		return []byte(res.HTML), res, nil
	}
}

// writeOutput creates the parent directory and writes data atomically.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateOutputDir, err)
	}
	// #nosec G306 -- rendered pages are meant to be readable
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed documents.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the failure count.
// limit is the input size limit, used for hints.
func printResults(results []RenderResult, common commonFlags, limit int, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err, limit))
			continue
		}

		if common.quiet {
			continue
		}

		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s [%s] (%v)\n", r.InputPath, r.OutputPath, r.Format, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
