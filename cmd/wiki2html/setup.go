package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/config"
	"github.com/alnah/go-wiki2html/internal/dump"
	"github.com/alnah/go-wiki2html/internal/hints"
	"github.com/alnah/go-wiki2html/internal/logger"
)

// settings bundles what a command resolves before doing any work.
type settings struct {
	cfg *config.Config
	env *envConfig
	log *logger.Logger
}

// loadSettings loads the config named by --config or WIKI2HTML_CONFIG,
// applies the environment on top, and builds the logger.
// Without a config name the defaults are used.
func loadSettings(common commonFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig(env.Getenv)

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			var hint string
			if errors.Is(err, config.ErrConfigNotFound) {
				hint = hints.ForConfigNotFound(config.SearchPaths(name))
			}
			return nil, fmt.Errorf("loading config: %w%s", err, hint)
		}
		cfg = loaded
	}
	applyEnvConfig(envCfg, cfg)

	l, err := newLogger(cfg.Log.Level, common, env.Stderr)
	if err != nil {
		return nil, err
	}
	if name != "" {
		l.ConfigLoaded(name)
	}

	return &settings{cfg: cfg, env: envCfg, log: l}, nil
}

// newLogger builds the logger at the configured level. --verbose lowers
// it to debug and --quiet raises it to error.
func newLogger(level string, common commonFlags, w io.Writer) (*logger.Logger, error) {
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %v", config.ErrInvalidValue, err)
	}
	switch {
	case common.verbose:
		lvl = log.DebugLevel
	case common.quiet:
		lvl = log.ErrorLevel
	}
	return logger.NewWithLevel(w, lvl), nil
}

// mergeCompileFlags merges CLI flags into config. CLI values override
// config values. The merged config is validated again, since flags
// bypass the checks made at load time.
func mergeCompileFlags(c compileFlags, p pageFlags, t tocFlags, cfg *config.Config) error {
	if c.format != "" {
		cfg.Render.Format = c.format
	}
	if c.linkPrefix != "" {
		cfg.Render.LinkPrefix = c.linkPrefix
	}
	if c.dateFormat != "" {
		cfg.Render.DateFormat = c.dateFormat
	}
	if c.imageBase != "" {
		cfg.Render.ImageBase = c.imageBase
	}
	if c.maxSize != 0 {
		cfg.Render.MaxInputSize = c.maxSize
	}
	if c.noSanitize {
		cfg.Render.Sanitize = false
	}
	if c.noHighlight {
		cfg.Highlight.Enabled = false
	}
	if c.highlightStyle != "" {
		cfg.Highlight.Style = c.highlightStyle
	}

	if p.standalone {
		cfg.Output.Standalone = true
	}
	if p.style != "" {
		cfg.Output.Style = p.style
	}
	if p.assetPath != "" {
		cfg.Assets.BasePath = p.assetPath
	}

	if t.enabled {
		cfg.TOC.Enabled = true
	}
	if t.title != "" {
		cfg.TOC.Title = t.title
	}
	if t.maxDepth != 0 {
		cfg.TOC.MaxDepth = t.maxDepth
	}
	if t.disabled {
		cfg.TOC.Enabled = false
	}

	if _, err := wiki2html.ParseFormat(cfg.Render.Format); err != nil {
		return err
	}
	return cfg.Validate()
}

// buildTOC returns the TOC settings, or nil when the TOC is disabled.
func buildTOC(cfg *config.Config, t tocFlags) (*wiki2html.TOC, error) {
	if !cfg.TOC.Enabled {
		return nil, nil
	}
	toc := &wiki2html.TOC{
		Title:    cfg.TOC.Title,
		MinDepth: t.minDepth,
		MaxDepth: cfg.TOC.MaxDepth,
	}
	if err := toc.Validate(); err != nil {
		return nil, err
	}
	return toc, nil
}

// newConverter builds the converter shared by every worker of a run.
func newConverter(cfg *config.Config, l *logger.Logger, now func() time.Time) (*wiki2html.Converter, error) {
	opts := []wiki2html.Option{
		wiki2html.WithHighlighting(cfg.Highlight.Enabled),
		wiki2html.WithSanitizer(cfg.Render.Sanitize),
		wiki2html.WithClock(now),
		wiki2html.WithLogger(l.Logger),
	}
	if cfg.Highlight.Style != "" {
		opts = append(opts, wiki2html.WithHighlightStyle(cfg.Highlight.Style))
	}
	if cfg.Render.LinkPrefix != "" {
		opts = append(opts, wiki2html.WithLinkPrefix(cfg.Render.LinkPrefix))
	}
	if cfg.Render.DateFormat != "" {
		opts = append(opts, wiki2html.WithDateFormat(cfg.Render.DateFormat))
	}
	if cfg.Render.MaxInputSize > 0 {
		opts = append(opts, wiki2html.WithMaxInputSize(cfg.Render.MaxInputSize))
	}
	if cfg.Render.ImageBase != "" {
		opts = append(opts, wiki2html.WithImageBase(cfg.Render.ImageBase))
	}
	if cfg.Output.Style != "" {
		opts = append(opts, wiki2html.WithStyle(cfg.Output.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, wiki2html.WithAssetPath(cfg.Assets.BasePath))
	}
	return wiki2html.NewConverter(opts...)
}

// resolveWorkers picks the worker count: --workers, then
// WIKI2HTML_WORKERS, then the GOMAXPROCS-based default.
func resolveWorkers(flagWorkers int, envCfg *envConfig) (int, error) {
	n := flagWorkers
	if n == 0 && envCfg != nil {
		n = envCfg.Workers
	}
	if err := validateWorkers(n); err != nil {
		return 0, err
	}
	return wiki2html.ResolvePoolSize(n), nil
}

// errorMessage formats a command error with its hint, if any.
func errorMessage(err error) string {
	return err.Error() + hintFor(err, 0)
}

// hintFor returns the actionable hint for err. limit is the input size
// limit in effect, or 0 when unknown.
func hintFor(err error, limit int) string {
	switch {
	case errors.Is(err, wiki2html.ErrUnknownFormat):
		return hints.ForUnknownFormat(wiki2html.FormatNames)
	case errors.Is(err, wiki2html.ErrStyleNotFound):
		return hints.ForStyleNotFound(wiki2html.StyleNames())
	case errors.Is(err, wiki2html.ErrInputTooLarge) && limit > 0:
		return hints.ForInputTooLarge(limit)
	case errors.Is(err, dump.ErrUnknownLayout):
		return hints.ForDumpFile()
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}

// inputLimit returns the size limit the converter enforces for cfg.
func inputLimit(cfg *config.Config) int {
	if cfg.Render.MaxInputSize > 0 {
		return cfg.Render.MaxInputSize
	}
	return wiki2html.DefaultMaxInputSize
}
