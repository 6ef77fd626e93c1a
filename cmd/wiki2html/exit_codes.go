package main

import (
	"errors"
	"os"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/config"
	"github.com/alnah/go-wiki2html/internal/dump"
)

// Exit codes for the wiki2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every document rendered
	ExitGeneral = 1 // General/unexpected error, or some documents failed
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, unreadable dump
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrCreateOutputDir) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, dump.ErrMalformed) ||
		errors.Is(err, dump.ErrNotArray) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrConflictingOutput) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dump.ErrUnknownLayout) ||
		errors.Is(err, wiki2html.ErrUnknownFormat) ||
		errors.Is(err, wiki2html.ErrInvalidTOCDepth) ||
		errors.Is(err, wiki2html.ErrInvalidOption) ||
		errors.Is(err, wiki2html.ErrInputTooLarge) ||
		errors.Is(err, wiki2html.ErrStyleNotFound) ||
		errors.Is(err, wiki2html.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
