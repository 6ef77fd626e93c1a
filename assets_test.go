package wiki2html

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestNewAssetLoader_Embedded(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader(\"\") error = %v", err)
	}

	css, err := loader.LoadStyle(DefaultStyle)
	if err != nil {
		t.Fatalf("LoadStyle(%q) error = %v", DefaultStyle, err)
	}
	if !strings.Contains(css, "wiki-") {
		t.Error("default style should target wiki classes")
	}

	_, err = loader.LoadStyle("missing")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
}

func TestNewAssetLoader_CustomOverridesEmbedded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stylesDir := filepath.Join(dir, "styles")
	if err := os.MkdirAll(stylesDir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stylesDir, "default.css"), []byte(".custom{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader, err := NewAssetLoader(dir)
	if err != nil {
		t.Fatalf("NewAssetLoader() error = %v", err)
	}

	css, err := loader.LoadStyle("default")
	if err != nil {
		t.Fatalf("LoadStyle(default) error = %v", err)
	}
	if css != ".custom{}" {
		t.Errorf("LoadStyle(default) = %q, want custom override", css)
	}

	// Names the directory lacks fall back to the embedded styles.
	if _, err := loader.LoadStyle("namu"); err != nil {
		t.Errorf("LoadStyle(namu) error = %v, want embedded fallback", err)
	}
}

func TestNewAssetLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewAssetLoader("/nonexistent/assets/dir")
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewAssetLoader() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestConvertAssetError_KeepsMessage(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatal(err)
	}
	_, err = loader.LoadStyle("../etc")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Fatalf("error = %v, want ErrStyleNotFound", err)
	}
	if !strings.Contains(err.Error(), "../etc") {
		t.Errorf("error %q should keep the original message", err)
	}
	if convertAssetError(nil) != nil {
		t.Error("convertAssetError(nil) should be nil")
	}
}

func TestStyleNames(t *testing.T) {
	t.Parallel()

	names := StyleNames()
	for _, want := range []string{"default", "namu"} {
		if !slices.Contains(names, want) {
			t.Errorf("StyleNames() = %v, missing %q", names, want)
		}
	}
}

type staticLoader map[string]string

func (s staticLoader) LoadStyle(name string) (string, error) {
	if css, ok := s[name]; ok {
		return css, nil
	}
	return "", ErrStyleNotFound
}

func TestWithAssetLoader(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter(WithAssetLoader(staticLoader{"default": ".from-loader{}"}))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if conv.cfg.resolvedStyle != ".from-loader{}" {
		t.Errorf("resolvedStyle = %q, want the custom loader's style", conv.cfg.resolvedStyle)
	}

	_, err = NewConverter(WithAssetLoader(staticLoader{}), WithStyle("other"))
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("NewConverter() error = %v, want ErrStyleNotFound", err)
	}
}
