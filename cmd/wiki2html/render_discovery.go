package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have a .wiki, .mediawiki, .namu, or .txt extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrConflictingOutput  = errors.New("output is a file but input is a directory")
)

// wikiExtensions maps the scanned extensions to the dialect they imply.
// FormatAuto means the text is detected.
var wikiExtensions = map[string]wiki2html.Format{
	".wiki":      wiki2html.FormatAuto,
	".mediawiki": wiki2html.FormatMediaWiki,
	".namu":      wiki2html.FormatNamuMark,
	".txt":       wiki2html.FormatAuto,
}

// FileToRender represents a single file to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all wiki files to render. ext is the output
// extension, without the dot.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateWikiExtension(inputPath); err != nil {
			return nil, err
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "", ext)
		if err != nil {
			return nil, err
		}
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	if outputDir != "" && strings.HasSuffix(outputDir, "."+ext) {
		return nil, fmt.Errorf("%w: %s", ErrConflictingOutput, outputDir)
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := wikiExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		outPath, err := resolveOutputPath(path, outputDir, inputPath, ext)
		if err != nil {
			return err
		}
		files = append(files, FileToRender{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a wiki file.
// Directory inputs keep their layout under outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) (string, error) {
	if outputDir == "" {
		return fileutil.ReplaceExtension(inputPath, ext)
	}

	if strings.HasSuffix(outputDir, "."+ext) {
		return outputDir, nil
	}

	name, err := fileutil.ReplaceExtension(filepath.Base(inputPath), ext)
	if err != nil {
		return "", err
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name), nil
		}
	}

	return filepath.Join(outputDir, name), nil
}

// formatForPath returns the dialect implied by the file extension.
func formatForPath(path string) wiki2html.Format {
	return wikiExtensions[strings.ToLower(filepath.Ext(path))]
}

// validateWikiExtension checks that the file has a recognized extension.
func validateWikiExtension(path string) error {
	ext := filepath.Ext(path)
	if _, ok := wikiExtensions[strings.ToLower(ext)]; !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > wiki2html.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, wiki2html.MaxPoolSize)
	}
	return nil
}
