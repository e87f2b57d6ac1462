package scraper

import (
	"fmt"
	"strings"
)

// IndexURL returns the n-th listing page. The first page is index.html;
// there is no index1.html.
func IndexURL(base string, n int) string {
	if n <= 1 {
		return base + "index.html"
	}
	return fmt.Sprintf("%sindex%d.html", base, n)
}

// ExtractFilename returns the last path segment of u with a leading "html"
// removed.
func ExtractFilename(u string) string {
	name := u[strings.LastIndex(u, "/")+1:]
	return strings.TrimPrefix(name, "html")
}

// SanitizeFilename replaces '/' with '_'.
func SanitizeFilename(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}

// ResolveImageURL prefixes novelBase to image sources that are not https
// URLs.
func ResolveImageURL(novelBase, src string) string {
	if strings.HasPrefix(src, "https") {
		return src
	}
	return novelBase + src
}
