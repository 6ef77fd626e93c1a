// Package dateutil converts user-friendly date formats to Go time layouts.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat renders dates the way Korean wikis show them
// ("2024. 3. 5.").
const DefaultDateFormat = "YYYY. M. D."

// dateTokens maps user-friendly tokens to Go layout components.
// Ordered by length descending for greedy matching; matching is case
// sensitive so "MM" (month) and "mm" (minute) stay apart.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
	{"A", "PM"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"korean":   DefaultDateFormat,
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a format string to a Go time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd, ddd, HH, hh, mm, ss, A.
// Text in brackets is kept literally: "[Day] D" keeps "Day". Other
// characters are preserved as they are.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Layout resolves a preset name or a format string to a Go layout. An
// empty value yields the layout of DefaultDateFormat.
func Layout(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = DefaultDateFormat
	}
	if preset, ok := DatePresets[strings.ToLower(value)]; ok {
		value = preset
	}
	return ParseDateFormat(value)
}
