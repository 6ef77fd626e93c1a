package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/config"
)

// stdioPath stands for stdin as input and stdout as output.
const stdioPath = "-"

// runRender compiles wiki files, a directory of them, or stdin.
func runRender(ctx context.Context, positionalArgs []string, flags *renderFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: render takes one input, got %d", ErrUsage, len(positionalArgs))
	}

	st, err := loadSettings(flags.common, env)
	if err != nil {
		return err
	}
	cfg := st.cfg

	// Merge CLI flags into config (CLI wins)
	if err := mergeCompileFlags(flags.compile, flags.page, flags.toc, cfg); err != nil {
		return err
	}
	params, err := buildRenderParams(flags, cfg)
	if err != nil {
		return err
	}

	conv, err := newConverter(cfg, st.log, env.Now)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	if inputPath == stdioPath {
		return renderStdin(ctx, conv, flags.output, params, inputLimit(cfg), env)
	}

	if flags.output == stdioPath {
		return fmt.Errorf("%w: --output - needs stdin input", ErrUsage)
	}
	outputDir := resolveOutputDir(flags.output, cfg)
	files, err := discoverFiles(inputPath, outputDir, params.mode.ext())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no wiki files found in %s", ErrNoInput, inputPath)
	}
	if len(files) > 1 {
		// A single title for many pages would be wrong for all but one.
		params.title = ""
	}

	workers, err := resolveWorkers(flags.workers, st.env)
	if err != nil {
		return err
	}

	start := env.Now()
	results := renderBatch(ctx, conv, workers, files, params)
	summary := countResults(results)
	st.log.Debug("render finished",
		"files", len(files),
		"workers", workers,
		"duration", env.Now().Sub(start).Round(time.Millisecond))

	failedCount := printResults(results, flags.common, inputLimit(cfg), env)
	if failedCount > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRenderFailed, failedCount, summary.Succeeded+summary.Failed)
	}
	return nil
}

// buildRenderParams collects the per-document settings of a render run.
func buildRenderParams(flags *renderFlags, cfg *config.Config) (*renderParams, error) {
	format, err := wiki2html.ParseFormat(cfg.Render.Format)
	if err != nil {
		return nil, err
	}
	toc, err := buildTOC(cfg, flags.toc)
	if err != nil {
		return nil, err
	}

	mode := modeHTML
	switch {
	case flags.text:
		mode = modeText
	case flags.json:
		mode = modeJSON
	}

	return &renderParams{
		format:     format,
		mode:       mode,
		standalone: cfg.Output.Standalone,
		title:      flags.title,
		lang:       flags.page.lang,
		toc:        toc,
	}, nil
}

// renderStdin compiles stdin and writes to stdout, or to output when it
// names a file.
func renderStdin(ctx context.Context, r Renderer, output string, params *renderParams, limit int, env *Environment) error {
	// One byte past the limit is enough for the converter to reject it.
	content, err := io.ReadAll(io.LimitReader(env.Stdin, int64(limit)+1))
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
	}

	data, _, err := renderDocument(ctx, r, wiki2html.Input{
		Text:   string(content),
		Format: params.format,
		Title:  params.title,
		Lang:   params.lang,
		TOC:    params.toc,
	}, params)
	if err != nil {
		return err
	}

	if output == "" || output == stdioPath {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: stdout: %w", ErrWriteOutput, err)
		}
		return nil
	}
	return writeOutput(filepath.Clean(output), data)
}

// resolveInputPath returns the input argument, falling back to the
// configured default directory.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the output flag, falling back to the
// configured default directory. Empty means next to each input.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
