// Package config loads and validates the YAML configuration of the
// wiki2html command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-wiki2html/internal/dateutil"
	"github.com/alnah/go-wiki2html/internal/fileutil"
	"github.com/alnah/go-wiki2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength       = 4096
	MaxURLLength        = 2048
	MaxStyleLength      = 100
	MaxLinkPrefixLength = 200
	MaxTOCTitleLength   = 100
	MaxNamespaceLength  = 100
	MaxNamespaces       = 64
)

// DefaultMaxInputSize bounds a single wiki document (8 MiB).
const DefaultMaxInputSize = 8 << 20

// AppDirName is the directory searched under the user config directory.
const AppDirName = "go-wiki2html"

// Accepted enum values.
var (
	Formats   = []string{"auto", "mediawiki", "namumark", "plain"}
	LogLevels = []string{"debug", "info", "warn", "error"}
)

// Config holds all configuration for rendering wiki documents.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Render    RenderConfig    `yaml:"render"`
	Highlight HighlightConfig `yaml:"highlight"`
	TOC       TOCConfig       `yaml:"toc"`
	Dump      DumpConfig      `yaml:"dump"`
	Assets    AssetsConfig    `yaml:"assets"`
	Log       LogConfig       `yaml:"log"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Standalone bool   `yaml:"standalone"` // Wrap fragments in a full HTML5 document
	Style      string `yaml:"style"`      // Style name, path, or inline CSS for standalone pages
}

// RenderConfig defines compilation options.
type RenderConfig struct {
	Format       string `yaml:"format"`       // auto, mediawiki, namumark, plain
	Sanitize     bool   `yaml:"sanitize"`     // Run the HTML sanitizer over the output
	LinkPrefix   string `yaml:"linkPrefix"`   // Prefix for internal links (default "/wiki/")
	DateFormat   string `yaml:"dateFormat"`   // Preset or tokens for the [date] macro
	MaxInputSize int    `yaml:"maxInputSize"` // Bytes; 0 means DefaultMaxInputSize
	ImageBase    string `yaml:"imageBase"`    // URL or directory for relative image sources
}

// HighlightConfig defines code highlighting options.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`    // Empty = no title above TOC
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// DumpConfig defines dump import options.
type DumpConfig struct {
	Namespaces    []string `yaml:"namespaces"`    // Empty = every namespace
	SkipRedirects bool     `yaml:"skipRedirects"` // Do not render redirect pages
	Limit         int      `yaml:"limit"`         // Maximum pages rendered; 0 = no limit
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default info)
}

// DefaultConfig returns the configuration used when no file is given.
// Loaded files are decoded on top of it, so omitted keys keep these values.
func DefaultConfig() *Config {
	return &Config{
		Output:    OutputConfig{Standalone: false},
		Render:    RenderConfig{Format: "auto", Sanitize: true, MaxInputSize: DefaultMaxInputSize},
		Highlight: HighlightConfig{Enabled: true},
		TOC:       TOCConfig{Enabled: false},
		Dump:      DumpConfig{SkipRedirects: true},
		Log:       LogConfig{Level: "info"},
	}
}

// Validate checks enums, ranges, and field lengths. Called by LoadConfig,
// and available to callers that build a Config by hand.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	// Inline CSS is allowed as a style value, so only names are bounded.
	if !fileutil.IsCSS(c.Output.Style) && !fileutil.IsFilePath(c.Output.Style) {
		if err := validateFieldLength("output.style", c.Output.Style, MaxStyleLength); err != nil {
			return err
		}
	}

	if err := validateEnum("render.format", c.Render.Format, Formats); err != nil {
		return err
	}
	if err := validateFieldLength("render.linkPrefix", c.Render.LinkPrefix, MaxLinkPrefixLength); err != nil {
		return err
	}
	if c.Render.DateFormat != "" {
		if _, err := dateutil.Layout(c.Render.DateFormat); err != nil {
			return fmt.Errorf("render.dateFormat: %w", err)
		}
	}
	if c.Render.MaxInputSize < 0 {
		return fmt.Errorf("%w: render.maxInputSize must not be negative, got %d", ErrInvalidValue, c.Render.MaxInputSize)
	}
	if err := validateFieldLength("render.imageBase", c.Render.ImageBase, MaxURLLength); err != nil {
		return err
	}

	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := validateFieldLength("toc.title", c.TOC.Title, MaxTOCTitleLength); err != nil {
		return err
	}
	if c.TOC.MaxDepth != 0 && (c.TOC.MaxDepth < 1 || c.TOC.MaxDepth > 6) {
		return fmt.Errorf("%w: toc.maxDepth must be between 1 and 6, got %d", ErrInvalidValue, c.TOC.MaxDepth)
	}

	if len(c.Dump.Namespaces) > MaxNamespaces {
		return fmt.Errorf("%w: dump.namespaces has %d entries, max %d", ErrInvalidValue, len(c.Dump.Namespaces), MaxNamespaces)
	}
	for i, ns := range c.Dump.Namespaces {
		if err := validateFieldLength(fmt.Sprintf("dump.namespaces[%d]", i), ns, MaxNamespaceLength); err != nil {
			return err
		}
	}
	if c.Dump.Limit < 0 {
		return fmt.Errorf("%w: dump.limit must not be negative, got %d", ErrInvalidValue, c.Dump.Limit)
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	return validateEnum("log.level", c.Log.Level, LogLevels)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts the empty string or one of allowed (case-insensitive).
func validateEnum(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.LoadFile(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := userConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
