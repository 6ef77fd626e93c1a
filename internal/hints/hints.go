// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strconv"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config directory that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-wiki2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownFormat lists the accepted --format values.
func ForUnknownFormat(accepted []string) string {
	return format("use one of: " + strings.Join(accepted, ", "))
}

// ForInputTooLarge suggests raising the input size limit.
func ForInputTooLarge(limit int) string {
	return format("limit is " + strconv.Itoa(limit) + " bytes; raise render.maxInputSize or use --max-size")
}

// ForDumpFile explains which dump files are understood.
func ForDumpFile() string {
	return format("expected a MediaWiki XML export (.xml) or a NamuWiki JSON dump (.json)")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
