package model

import (
	"net/url"
	"strconv"
	"strings"
)

// PostPath is the public URL path of a post detail page.
func PostPath(slug string) string {
	return "/" + url.PathEscape(slug)
}

// PagePath is the public URL path of listing page n. The first page is the
// site root.
func PagePath(n int) string {
	if n <= 1 {
		return "/"
	}
	return "/blog/" + strconv.Itoa(n)
}

// AbsoluteURL resolves a site-relative path such as a cover image against
// baseURL. Absolute URLs are returned unchanged.
func AbsoluteURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	u, err := url.Parse(path)
	if err == nil && u.IsAbs() {
		return path
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
