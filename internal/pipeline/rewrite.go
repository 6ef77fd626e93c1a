package pipeline

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-wiki2html/internal/fileutil"
)

// ResolveImageSources rewrites relative img[src] values against base.
// Wiki image markup carries bare file names ("Logo.png"), so a base is
// what turns them into loadable addresses. If base is empty, the HTML is
// returned unchanged.
//
// base is either an absolute URL ("https://upload.example.org/files/") or
// a local directory, whose files become file:// URLs. Sources that would
// escape a local directory are left as they are.
func ResolveImageSources(htmlContent, base string) (string, error) {
	if base == "" {
		return htmlContent, nil
	}

	resolve, err := newResolver(base)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	rewriteImages(doc, resolve)
	return renderHTML(doc, isFragment)
}

// newResolver returns the function mapping a relative source to its
// resolved form, or "" to leave it alone.
func newResolver(base string) (func(string) string, error) {
	if fileutil.IsURL(base) {
		u, err := url.Parse(base)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid image base URL %q", base)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		return func(src string) string {
			return u.ResolveReference(&url.URL{Path: src}).String()
		}, nil
	}

	dir, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	return func(src string) string {
		p := filepath.Join(dir, src)
		if !isPathUnderDir(p, dir) {
			return ""
		}
		return pathToFileURL(p)
	}, nil
}

// parseHTML parses a full document or a fragment. Fragments are parsed in
// a body context and returned under a bare document node.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders a parsed tree. Fragments render their children only,
// so no <html><body> wrapper is added.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteImages(n *html.Node, resolve func(string) string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isRelativePath(attr.Val) {
				continue
			}
			if v := resolve(attr.Val); v != "" {
				n.Attr[i].Val = v
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, resolve)
	}
}

// isRelativePath reports whether src names a file relative to the base.
func isRelativePath(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") {
		return false
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		return false
	}
	return !strings.HasPrefix(src, "/") && !filepath.IsAbs(src)
}

// isPathUnderDir checks that p stays inside dir.
func isPathUnderDir(p, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(p)+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(p string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String()
}
