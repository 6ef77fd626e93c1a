package assets

import (
	"fmt"
	"regexp"
)

// Built-in style names.
const (
	DefaultStyleName = "default"
	NamuStyleName    = "namu"
)

// MaxStyleNameLength bounds a style name.
const MaxStyleNameLength = 64

// StyleLoader loads page stylesheets by name, without the .css extension.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

var styleName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateStyleName accepts ASCII letters, digits, '-' and '_', starting
// with a letter or digit. Dots and separators are rejected, so a name can
// select neither another extension nor another directory.
func ValidateStyleName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	case len(name) > MaxStyleNameLength:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidStyleName, len(name), MaxStyleNameLength)
	case !styleName.MatchString(name):
		return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
	}
	return nil
}

// StyleFor returns the style name for pages compiled from format:
// NamuMark pages get the namu style, everything else the default one.
func StyleFor(format string) string {
	if format == "namumark" {
		return NamuStyleName
	}
	return DefaultStyleName
}

// LoadPageStyle loads the style StyleFor picks for format from l. When a
// dialect style cannot be loaded, the default style is used instead.
func LoadPageStyle(l StyleLoader, format string) (string, error) {
	name := StyleFor(format)
	css, err := l.LoadStyle(name)
	if err != nil && name != DefaultStyleName {
		return l.LoadStyle(DefaultStyleName)
	}
	return css, err
}
