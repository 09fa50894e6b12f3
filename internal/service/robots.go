package service

import (
	"os"
	"path/filepath"
	"strings"
)

// Robots returns publicPath/robots.txt if present, otherwise a permissive
// default pointing at the sitemap.
func Robots(publicPath, baseURL string) []byte {
	content, err := os.ReadFile(filepath.Join(publicPath, "robots.txt"))
	if err == nil {
		return content
	}
	return []byte("User-agent: *\nAllow: /\nSitemap: " + strings.TrimSuffix(baseURL, "/") + "/sitemap.xml\n")
}
