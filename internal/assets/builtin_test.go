package assets

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestBuiltin_LoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		style     string
		wantErr   error
		wantClass string
	}{
		{"default", "default", nil, ".wiki-"},
		{"namu", "namu", nil, ".wiki-article"},
		{"unknown", "monobook", ErrStyleNotFound, ""},
		{"traversal", "../default", ErrInvalidStyleName, ""},
		{"extension", "default.css", ErrInvalidStyleName, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			css, err := Builtin{}.LoadStyle(tt.style)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
			}
			if tt.wantErr == nil && !strings.Contains(css, tt.wantClass) {
				t.Errorf("LoadStyle(%q) does not style %s", tt.style, tt.wantClass)
			}
		})
	}
}

func TestBuiltin_UnknownStyleListsBuiltins(t *testing.T) {
	t.Parallel()

	_, err := Builtin{}.LoadStyle("monobook")
	if err == nil || !strings.Contains(err.Error(), "default, namu") {
		t.Errorf("error = %v, want the built-in names listed", err)
	}
}

func TestStyleNames(t *testing.T) {
	t.Parallel()

	names := StyleNames()
	if !slices.Equal(names, []string{"default", "namu"}) {
		t.Errorf("StyleNames() = %v, want [default namu]", names)
	}
	for _, n := range names {
		if err := ValidateStyleName(n); err != nil {
			t.Errorf("built-in style %q has an invalid name: %v", n, err)
		}
	}
}
