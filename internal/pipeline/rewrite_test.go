package pipeline

// Notes:
// - ResolveImageSources is tested through its public API; helpers get
//   their own tables because the security checks are easy to get wrong
// - Local directory bases use Unix paths and are skipped on Windows

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolveImageSources - Main Function Tests
// ---------------------------------------------------------------------------

func TestResolveImageSources(t *testing.T) {
	t.Parallel()

	const base = "https://upload.example.org/files"

	tests := []struct {
		name         string
		html         string
		base         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "empty base leaves html unchanged",
			html:         `<img src="Logo.png">`,
			base:         "",
			wantContains: []string{`<img src="Logo.png">`},
		},
		{
			name:         "bare file name resolved against URL",
			html:         `<img src="Logo.png"/>`,
			base:         base,
			wantContains: []string{`src="https://upload.example.org/files/Logo.png"`},
		},
		{
			name:         "spaces escaped",
			html:         `<img src="My Logo.png"/>`,
			base:         base,
			wantContains: []string{`src="https://upload.example.org/files/My%20Logo.png"`},
		},
		{
			name:         "absolute URL unchanged",
			html:         `<img src="https://cdn.example.com/a.png"/>`,
			base:         base,
			wantContains: []string{`src="https://cdn.example.com/a.png"`},
		},
		{
			name:         "rooted path unchanged",
			html:         `<img src="/static/a.png"/>`,
			base:         base,
			wantContains: []string{`src="/static/a.png"`},
		},
		{
			name:         "links are not rewritten",
			html:         `<a href="Page">Page</a>`,
			base:         base,
			wantContains: []string{`href="Page"`},
			wantExcludes: []string{"upload.example.org"},
		},
		{
			name:         "other attributes preserved",
			html:         `<figure class="wiki-image"><img src="a.png" alt="cap" loading="lazy"/></figure>`,
			base:         base,
			wantContains: []string{`alt="cap"`, `loading="lazy"`, `class="wiki-image"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveImageSources(tt.html, tt.base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("result should contain %q\ngot: %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("result should not contain %q\ngot: %s", exclude, got)
				}
			}
		})
	}
}

func TestResolveImageSources_LocalDirectory(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("Unix paths")
	}

	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "file in directory", html: `<img src="a.png"/>`, want: `src="file:///media/a.png"`},
		{name: "nested file", html: `<img src="sub/a.png"/>`, want: `src="file:///media/sub/a.png"`},
		{name: "traversal left alone", html: `<img src="../../etc/passwd"/>`, want: `src="../../etc/passwd"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveImageSources(tt.html, "/media")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("result should contain %q\ngot: %s", tt.want, got)
			}
		})
	}
}

func TestResolveImageSources_FullDocument(t *testing.T) {
	t.Parallel()

	doc := `<!DOCTYPE html><html><head><title>T</title></head><body><img src="a.png"/></body></html>`
	got, err := ResolveImageSources(doc, "https://upload.example.org/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<title>T</title>", `src="https://upload.example.org/a.png"`} {
		if !strings.Contains(got, want) {
			t.Errorf("result should contain %q\ngot: %s", want, got)
		}
	}
}

func TestResolveImageSources_BaseKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "uppercase scheme is a URL", base: "HTTPS://upload.example.org/files", want: `src="https://upload.example.org/files/a.png"`},
		{name: "URL without host", base: "https://", wantErr: true},
		{name: "plain http", base: "http://img.example.org", want: `src="http://img.example.org/a.png"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveImageSources(`<img src="a.png"/>`, tt.base)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for base %q, got %s", tt.base, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("result should contain %q\ngot: %s", tt.want, got)
			}
		})
	}
}

func TestResolveImageSources_FragmentNotWrapped(t *testing.T) {
	t.Parallel()

	got, err := ResolveImageSources(`<p>x</p><img src="a.png"/>`, "https://upload.example.org/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, exclude := range []string{"<html", "<body", "<head"} {
		if strings.Contains(got, exclude) {
			t.Errorf("fragment should not gain %q\ngot: %s", exclude, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestIsRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"Logo.png", true},
		{"./image.png", true},
		{"images/logo.png", true},
		{"../parent.png", true},
		{"위키 로고.png", true},

		{"", false},
		{"http://example.com/img.png", false},
		{"https://example.com/img.png", false},
		{"file:///abs/path.png", false},
		{"data:image/png;base64,ABC", false},
		{"//cdn.example.com/img.png", false},
		{"#anchor", false},
		{"/absolute/path.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := isRelativePath(tt.path); got != tt.want {
				t.Errorf("isRelativePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsPathUnderDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		dir  string
		want bool
	}{
		{name: "direct child", path: "/docs/image.png", dir: "/docs", want: true},
		{name: "nested child", path: "/docs/images/logo.png", dir: "/docs", want: true},
		{name: "parent directory", path: "/etc/passwd", dir: "/docs", want: false},
		{name: "dir with trailing slash", path: "/docs/image.png", dir: "/docs/", want: true},
		{name: "similar prefix", path: "/docs-other/image.png", dir: "/docs", want: false},
		{name: "exact match", path: "/docs", dir: "/docs", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, dir := filepath.FromSlash(tt.path), filepath.FromSlash(tt.dir)
			if got := isPathUnderDir(p, dir); got != tt.want {
				t.Errorf("isPathUnderDir(%q, %q) = %v, want %v", p, dir, got, tt.want)
			}
		})
	}
}

func TestPathToFileURL(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("Unix paths")
	}

	tests := []struct {
		path string
		want string
	}{
		{"/docs/images/logo.png", "file:///docs/images/logo.png"},
		{"/docs/my images/logo.png", "file:///docs/my%20images/logo.png"},
		{"/docs/위키/logo.png", "file:///docs/%EC%9C%84%ED%82%A4/logo.png"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := pathToFileURL(tt.path); got != tt.want {
				t.Errorf("pathToFileURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
