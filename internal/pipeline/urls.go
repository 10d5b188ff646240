package pipeline

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResolveRelativeURLs rewrites relative img[src] and a[href] values of a
// rendered document into file:// URLs under baseDir. Exported documents are
// rendered from a temporary file, so references relative to the Markdown
// source would otherwise break.
//
// URLs with a scheme, protocol-relative URLs, fragments, absolute paths and
// paths escaping baseDir are left alone. An empty baseDir returns the
// document unchanged.
func ResolveRelativeURLs(document, baseDir string) (string, error) {
	if baseDir == "" {
		return document, nil
	}

	root, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("parsing document: %w", err)
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		resolveAttr(s, "src", root)
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		resolveAttr(s, "href", root)
	})

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return out, nil
}

func resolveAttr(s *goquery.Selection, name, root string) {
	ref := s.AttrOr(name, "")
	if !isLocalReference(ref) {
		return
	}

	target := filepath.Join(root, filepath.FromSlash(ref))
	if !within(target, root) {
		return
	}
	s.SetAttr(name, fileURL(target))
}

// isLocalReference reports whether ref is a relative filesystem path.
func isLocalReference(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(ref) && !strings.HasPrefix(ref, "/")
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if !strings.HasPrefix(u.Path, "/") {
		// Windows drive letters.
		u.Path = "/" + u.Path
	}
	return u.String()
}
