package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-wiki2html/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "WIKI2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // WIKI2HTML_CONFIG: config file name or path
	Format     string // WIKI2HTML_FORMAT: auto, mediawiki, namumark, plain
	Style      string // WIKI2HTML_STYLE: page style name or path
	InputDir   string // WIKI2HTML_INPUT_DIR: default input directory
	OutputDir  string // WIKI2HTML_OUTPUT_DIR: default output directory
	LinkPrefix string // WIKI2HTML_LINK_PREFIX: prefix for internal links
	ImageBase  string // WIKI2HTML_IMAGE_BASE: base for relative images
	LogLevel   string // WIKI2HTML_LOG_LEVEL: debug, info, warn, error
	Workers    int    // WIKI2HTML_WORKERS: parallel workers
}

// knownEnvVars lists valid WIKI2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"WIKI2HTML_CONFIG":      true,
	"WIKI2HTML_FORMAT":      true,
	"WIKI2HTML_STYLE":       true,
	"WIKI2HTML_INPUT_DIR":   true,
	"WIKI2HTML_OUTPUT_DIR":  true,
	"WIKI2HTML_LINK_PREFIX": true,
	"WIKI2HTML_IMAGE_BASE":  true,
	"WIKI2HTML_LOG_LEVEL":   true,
	"WIKI2HTML_WORKERS":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("WIKI2HTML_CONFIG"),
		Format:     getenv("WIKI2HTML_FORMAT"),
		Style:      getenv("WIKI2HTML_STYLE"),
		InputDir:   getenv("WIKI2HTML_INPUT_DIR"),
		OutputDir:  getenv("WIKI2HTML_OUTPUT_DIR"),
		LinkPrefix: getenv("WIKI2HTML_LINK_PREFIX"),
		ImageBase:  getenv("WIKI2HTML_IMAGE_BASE"),
		LogLevel:   getenv("WIKI2HTML_LOG_LEVEL"),
	}

	// Invalid or non-positive worker counts are ignored.
	if workers := getenv("WIKI2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized WIKI2HTML_* variables.
// Helps catch typos like WIKI2HTML_FROMAT.
func warnUnknownEnvVars(env *Environment) {
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(env.Stderr, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty or
// still the default. This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by the merge functions).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	defaults := config.DefaultConfig()

	if env.Format != "" && (cfg.Render.Format == "" || cfg.Render.Format == defaults.Render.Format) {
		cfg.Render.Format = env.Format
	}
	if env.Style != "" && cfg.Output.Style == "" {
		cfg.Output.Style = env.Style
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.LinkPrefix != "" && cfg.Render.LinkPrefix == "" {
		cfg.Render.LinkPrefix = env.LinkPrefix
	}
	if env.ImageBase != "" && cfg.Render.ImageBase == "" {
		cfg.Render.ImageBase = env.ImageBase
	}
	if env.LogLevel != "" && (cfg.Log.Level == "" || cfg.Log.Level == defaults.Log.Level) {
		cfg.Log.Level = env.LogLevel
	}
}
