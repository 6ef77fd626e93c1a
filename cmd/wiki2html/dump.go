package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/config"
	"github.com/alnah/go-wiki2html/internal/dump"
	"github.com/alnah/go-wiki2html/internal/fileutil"
)

// dumpStats counts the pages of a dump run. Rendered and failed are
// updated by workers; skipped only by the reader.
type dumpStats struct {
	rendered atomic.Int64
	failed   atomic.Int64
	skipped  int
}

// pageFilter decides which dump pages are rendered.
type pageFilter struct {
	namespaces    map[int]bool // Empty means every namespace
	skipRedirects bool
	limit         int // 0 means no limit
	accepted      int
}

// accept reports whether p should be rendered, and why not otherwise.
// It returns dump.ErrStop once the limit is reached.
func (f *pageFilter) accept(p dump.Page) (bool, string, error) {
	if len(f.namespaces) > 0 && !f.namespaces[p.Namespace] {
		return false, "namespace " + strconv.Itoa(p.Namespace), nil
	}
	if f.skipRedirects && p.IsRedirect() {
		return false, "redirect to " + p.RedirectTo, nil
	}
	if f.limit > 0 && f.accepted >= f.limit {
		return false, "", dump.ErrStop
	}
	f.accepted++
	return true, "", nil
}

// fileNames hands out unique output names for page titles. Titles that
// only differ by case or by characters SafeFileName replaces would
// otherwise overwrite each other.
type fileNames map[string]bool

// claim returns the file name for a page. On collision the name gets the
// page id, then a counter, until it is free.
func (n fileNames) claim(title string, id int64) string {
	base := fileutil.SafeFileName(title)
	name := base
	for i := 1; n[strings.ToLower(name)]; i++ {
		if i == 1 {
			name = fmt.Sprintf("%s_%d", base, id)
		} else {
			name = fmt.Sprintf("%s_%d_%d", base, id, i)
		}
	}
	n[strings.ToLower(name)] = true
	return name
}

// runDump renders every selected page of a dump into the output directory.
func runDump(ctx context.Context, positionalArgs []string, flags *dumpFlags, env *Environment) error {
	if len(positionalArgs) != 1 {
		return fmt.Errorf("%w: dump takes one file, got %d", ErrUsage, len(positionalArgs))
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	st, err := loadSettings(flags.common, env)
	if err != nil {
		return err
	}
	cfg := st.cfg

	mergeDumpFlags(flags, cfg)
	if err := mergeCompileFlags(flags.compile, flags.page, flags.toc, cfg); err != nil {
		return err
	}
	filter, err := newPageFilter(cfg)
	if err != nil {
		return err
	}
	forced, err := wiki2html.ParseFormat(cfg.Render.Format)
	if err != nil {
		return err
	}
	toc, err := buildTOC(cfg, flags.toc)
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg, st.log, env.Now)
	if err != nil {
		return err
	}
	workers, err := resolveWorkers(flags.workers, st.env)
	if err != nil {
		return err
	}

	outDir := resolveOutputDir(flags.output, cfg)
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateOutputDir, err)
	}

	path := positionalArgs[0]
	f, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	defer func() { _ = f.Close() }()

	params := &renderParams{
		standalone: cfg.Output.Standalone,
		mode:       modeHTML,
		lang:       flags.page.lang,
		toc:        toc,
	}

	start := env.Now()
	stats, layout, err := renderDump(ctx, conv, f, dumpRun{
		forced:  forced,
		filter:  filter,
		outDir:  outDir,
		workers: workers,
		params:  params,
		st:      st,
	})
	if err != nil {
		return fmt.Errorf("reading dump %s: %w", path, err)
	}
	elapsed := env.Now().Sub(start)

	rendered, failed := int(stats.rendered.Load()), int(stats.failed.Load())
	st.log.BatchCompleted(rendered, failed, stats.skipped, elapsed)
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "%s: %d rendered, %d failed, %d skipped\n", layout, rendered, failed, stats.skipped)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRenderFailed, failed, rendered+failed)
	}
	return nil
}

// dumpRun holds the settings of one dump rendering.
type dumpRun struct {
	forced  wiki2html.Format
	filter  *pageFilter
	outDir  string
	workers int
	params  *renderParams
	st      *settings
}

// renderDump streams the pages of r to a bounded group of workers. The
// reader blocks while every worker is busy, so memory stays flat on large
// dumps. A page that fails to render is counted and logged; it does not
// stop the run.
func renderDump(ctx context.Context, conv Renderer, r io.Reader, run dumpRun) (*dumpStats, dump.Layout, error) {
	layout, br, err := dump.Sniff(r)
	if err != nil {
		return nil, "", err
	}

	// Dumps name their dialect: XML exports are MediaWiki, JSON dumps NamuMark.
	format := run.forced
	if format == wiki2html.FormatAuto {
		format = wiki2html.FormatNamuMark
		if layout == dump.LayoutMediaWikiXML {
			format = wiki2html.FormatMediaWiki
		}
	}

	stats := &dumpStats{}
	names := fileNames{}
	log := run.st.log

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(run.workers)

	onPage := func(p dump.Page) error {
		ok, reason, err := run.filter.accept(p)
		if err != nil {
			return err
		}
		if !ok {
			stats.skipped++
			log.Skipped(p.Title, reason)
			return nil
		}

		dest := filepath.Join(run.outDir, names.claim(p.Title, p.ID)+".html")
		g.Go(func() error {
			start := time.Now()
			data, _, err := renderDocument(gctx, conv, wiki2html.Input{
				Text:   p.Text,
				Format: format,
				Title:  p.Title,
				Lang:   run.params.lang,
				TOC:    run.params.toc,
			}, run.params)
			if err == nil {
				err = writeOutput(dest, data)
			}
			if err != nil {
				stats.failed.Add(1)
				log.RenderError(p.Title, err)
				return nil
			}
			stats.rendered.Add(1)
			log.Rendered(p.Title, dest, string(format), time.Since(start))
			return nil
		})
		return nil
	}

	_, err = dump.Read(gctx, br, onPage)
	if waitErr := g.Wait(); err == nil {
		err = waitErr
	}
	return stats, layout, err
}

// mergeDumpFlags merges dump CLI flags into config. CLI values override
// config values.
func mergeDumpFlags(flags *dumpFlags, cfg *config.Config) {
	if len(flags.namespaces) > 0 {
		cfg.Dump.Namespaces = flags.namespaces
	}
	if flags.includeRedirects {
		cfg.Dump.SkipRedirects = false
	}
	if flags.limit > 0 {
		cfg.Dump.Limit = flags.limit
	}
}

// newPageFilter builds the page filter from the dump config. Namespaces
// must be numbers, as both dump formats store them.
func newPageFilter(cfg *config.Config) (*pageFilter, error) {
	f := &pageFilter{
		namespaces:    make(map[int]bool, len(cfg.Dump.Namespaces)),
		skipRedirects: cfg.Dump.SkipRedirects,
		limit:         cfg.Dump.Limit,
	}
	for _, ns := range cfg.Dump.Namespaces {
		n, err := strconv.Atoi(strings.TrimSpace(ns))
		if err != nil {
			return nil, fmt.Errorf("%w: namespace %q is not a number", ErrUsage, ns)
		}
		f.namespaces[n] = true
	}
	return f, nil
}
