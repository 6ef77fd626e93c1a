package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateStyleName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"default", false},
		{"namu", false},
		{"namu-dark", false},
		{"Vector_2022", false},
		{"monobook2", false},
		{strings.Repeat("a", MaxStyleNameLength), false},

		{"", true},
		{strings.Repeat("a", MaxStyleNameLength+1), true},
		{"-namu", true},
		{"_namu", true},
		{"namu.css", true},
		{"../namu", true},
		{`..\namu`, true},
		{"styles/namu", true},
		{"/etc/passwd", true},
		{"나무", true},
		{"namu dark", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			err := ValidateStyleName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidStyleName) {
				t.Errorf("ValidateStyleName(%q) error = %v, want ErrInvalidStyleName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateStyleName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestStyleFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"namumark", NamuStyleName},
		{"mediawiki", DefaultStyleName},
		{"plain", DefaultStyleName},
		{"", DefaultStyleName},
	}

	for _, tt := range tests {
		if got := StyleFor(tt.format); got != tt.want {
			t.Errorf("StyleFor(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

type mapLoader map[string]string

func (m mapLoader) LoadStyle(name string) (string, error) {
	if css, ok := m[name]; ok {
		return css, nil
	}
	return "", ErrStyleNotFound
}

func TestLoadPageStyle(t *testing.T) {
	t.Parallel()

	both := mapLoader{"default": ".mw{}", "namu": ".namu{}"}
	onlyDefault := mapLoader{"default": ".mw{}"}

	tests := []struct {
		name    string
		loader  StyleLoader
		format  string
		want    string
		wantErr error
	}{
		{"namumark page", both, "namumark", ".namu{}", nil},
		{"mediawiki page", both, "mediawiki", ".mw{}", nil},
		{"missing namu style falls back", onlyDefault, "namumark", ".mw{}", nil},
		{"missing default style", mapLoader{}, "mediawiki", "", ErrStyleNotFound},
		{"built-in namu", Builtin{}, "namumark", "Noto Sans KR", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadPageStyle(tt.loader, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadPageStyle() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("LoadPageStyle() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
