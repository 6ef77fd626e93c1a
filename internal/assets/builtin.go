package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css
var builtinStyles embed.FS

// Builtin serves the styles compiled into the binary.
type Builtin struct{}

// LoadStyle returns the built-in style called name.
func (Builtin) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}
	content, err := builtinStyles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q (built-in: %s)", ErrStyleNotFound, name, strings.Join(StyleNames(), ", "))
	}
	return string(content), nil
}

// StyleNames lists the built-in styles in sorted order.
func StyleNames() []string {
	entries, err := fs.ReadDir(builtinStyles, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

var _ StyleLoader = Builtin{}
