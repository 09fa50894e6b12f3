package handler

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// servePublic serves r's path from the public directory when it names a
// regular file there. It reports whether it wrote a response.
func servePublic(w http.ResponseWriter, r *http.Request, public fs.FS) bool {
	if public == nil {
		return false
	}
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" || !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(public, name)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	http.ServeFileFS(w, r, public, name)
	return true
}
