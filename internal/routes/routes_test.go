package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/templui/blogfeed/internal/app"
	"github.com/templui/blogfeed/internal/config"
)

func testApp(t *testing.T, env string) *app.App {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "posts")
	publicDir := filepath.Join(dir, "public")
	for _, d := range []string{contentDir, publicDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	files := map[string]string{
		filepath.Join(contentDir, "hello.md"):   "---\ntitle: Hello\ndate: 2021-03-01\n---\nHello body\n",
		filepath.Join(contentDir, "draft.md"):   "---\ntitle: Draft\ndate: 2021-04-01\ndraft: true\n---\nDraft body\n",
		filepath.Join(publicDir, "favicon.ico"): "icon",
	}
	for path, data := range files {
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}

	a, err := app.New(&config.Config{
		AppEnv:          env,
		AppURL:          "https://example.com",
		SiteTitle:       "Test Blog",
		ShowDate:        true,
		PostsPerPage:    10,
		ContentPath:     contentDir,
		PublicPath:      publicDir,
		MalformedPolicy: "abort",
	})
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	return a
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	h := SetupRoutes(testApp(t, "production"))

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/", http.StatusOK, "Hello"},
		{"/hello", http.StatusOK, "Hello body"},
		{"/draft", http.StatusOK, "not yet been published"},
		{"/blog/2", http.StatusNotFound, "404"},
		{"/blog/1", http.StatusMovedPermanently, ""},
		{"/missing", http.StatusNotFound, "404"},
		{"/a/b/c", http.StatusNotFound, "404"},
		{"/favicon.ico", http.StatusOK, "icon"},
		{"/sitemap.xml", http.StatusOK, "https://example.com/hello"},
		{"/rss.xml", http.StatusOK, "<title>Hello</title>"},
		{"/robots.txt", http.StatusOK, "Sitemap:"},
		{"/assets/css/style.css", http.StatusOK, "max-w-2xl"},
	}

	for _, tt := range tests {
		rec := get(h, tt.target)
		if rec.Code != tt.status {
			t.Errorf("GET %s: status = %d, want %d", tt.target, rec.Code, tt.status)
			continue
		}
		if tt.want != "" && !strings.Contains(rec.Body.String(), tt.want) {
			t.Errorf("GET %s: body missing %q", tt.target, tt.want)
		}
	}
}

func TestRoutesDraftsInDevelopment(t *testing.T) {
	h := SetupRoutes(testApp(t, "development"))

	rec := get(h, "/")
	if !strings.Contains(rec.Body.String(), "Draft") {
		t.Error("development listing should include drafts")
	}
	rec = get(h, "/draft")
	if !strings.Contains(rec.Body.String(), "Draft body") {
		t.Error("development detail should render the draft body")
	}
}

func TestRoutesSecurityHeaders(t *testing.T) {
	h := SetupRoutes(testApp(t, "production"))

	rec := get(h, "/")
	if !strings.Contains(rec.Header().Get("Content-Security-Policy"), "'nonce-") {
		t.Errorf("CSP = %q, want nonce", rec.Header().Get("Content-Security-Policy"))
	}
}
