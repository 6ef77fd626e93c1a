package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	wiki2html "github.com/alnah/go-wiki2html"
)

// Report palette.
const (
	colorMediaWiki = "#78DCE8"
	colorNamuMark  = "#A9DC76"
	colorPlain     = "#727072"
)

// detection is the outcome of scoring one input.
type detection struct {
	Path   string           `json:"path"`
	Format wiki2html.Format `json:"format"`
	Scores wiki2html.Scores `json:"scores"`
}

// runDetect scores each input and reports the dialect it compiles as.
func runDetect(ctx context.Context, positionalArgs []string, flags *detectFlags, env *Environment) error {
	if len(positionalArgs) == 0 {
		return fmt.Errorf("%w: detect needs at least one file", ErrUsage)
	}

	st, err := loadSettings(flags.common, env)
	if err != nil {
		return err
	}
	limit := inputLimit(st.cfg)

	detections := make([]detection, 0, len(positionalArgs))
	for _, path := range positionalArgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := readSource(path, limit, env)
		if err != nil {
			return err
		}
		scores := wiki2html.Score(text)
		d := detection{Path: path, Format: scores.Format(), Scores: scores}
		st.log.FormatDetected(path, string(d.Format), scores.MediaWiki, scores.NamuMark)
		detections = append(detections, d)
	}

	switch {
	case flags.json:
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(detections); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	case flags.common.quiet:
		for _, d := range detections {
			if len(detections) == 1 {
				fmt.Fprintln(env.Stdout, d.Format)
				continue
			}
			fmt.Fprintf(env.Stdout, "%s\t%s\n", d.Path, d.Format)
		}
	default:
		printDetections(env.Stdout, detections)
	}
	return nil
}

// readSource reads a file, or stdin for "-", refusing inputs over limit.
func readSource(path string, limit int, env *Environment) (string, error) {
	var r io.Reader = env.Stdin
	if path != stdioPath {
		f, err := os.Open(path) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	if len(data) > limit {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", wiki2html.ErrInputTooLarge, path, limit)
	}
	return string(data), nil
}

// printDetections writes one styled line per input. Colors are dropped
// when w is not a terminal.
func printDetections(w io.Writer, detections []detection) {
	r := lipgloss.NewRenderer(w)

	width := 0
	for _, d := range detections {
		width = max(width, lipgloss.Width(d.Path))
	}
	pathStyle := r.NewStyle().Bold(true).Width(width + 2)
	dimStyle := r.NewStyle().Foreground(lipgloss.Color(colorPlain))
	formatStyles := map[wiki2html.Format]lipgloss.Style{
		wiki2html.FormatMediaWiki: r.NewStyle().Foreground(lipgloss.Color(colorMediaWiki)).Bold(true),
		wiki2html.FormatNamuMark:  r.NewStyle().Foreground(lipgloss.Color(colorNamuMark)).Bold(true),
		wiki2html.FormatPlain:     r.NewStyle().Foreground(lipgloss.Color(colorPlain)),
	}

	for _, d := range detections {
		formatStyle := formatStyles[d.Format].Width(10)
		fmt.Fprintln(w, pathStyle.Render(d.Path)+
			formatStyle.Render(string(d.Format))+
			dimStyle.Render(fmt.Sprintf("mediawiki %d, namumark %d", d.Scores.MediaWiki, d.Scores.NamuMark)))
	}
}
