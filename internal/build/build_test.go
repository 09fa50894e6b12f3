package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/content"
	"github.com/templui/blogfeed/internal/db"
	"github.com/templui/blogfeed/internal/markdown"
	"github.com/templui/blogfeed/internal/model"
	"github.com/templui/blogfeed/internal/repository"
	"github.com/templui/blogfeed/internal/service"
	"github.com/templui/blogfeed/internal/storage"
)

type fixture struct {
	contentDir string
	publicDir  string
	outDir     string
	manifest   repository.ArtifactRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		contentDir: filepath.Join(dir, "posts"),
		publicDir:  filepath.Join(dir, "public"),
		outDir:     filepath.Join(dir, "out"),
	}
	for _, d := range []string{f.contentDir, filepath.Join(f.publicDir, "img")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	f.writePost(t, "jan", "title: January\ndate: 2021-01-01\n", "Jan body")
	f.writePost(t, "feb", "title: February\ndate: 2021-02-01\n", "Feb body")
	f.writePost(t, "mar", "title: March\ndate: 2021-03-01\n", "Mar body")
	f.writePost(t, "apr", "title: April\ndate: 2021-04-01\ndraft: true\n", "Apr body")
	if err := os.WriteFile(filepath.Join(f.publicDir, "img", "cover.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	database, err := db.Init("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	f.manifest = repository.NewArtifactRepository(database)
	return f
}

func (f *fixture) writePost(t *testing.T, slug, front, body string) {
	t.Helper()
	data := "---\n" + front + "---\n" + body + "\n"
	if err := os.WriteFile(filepath.Join(f.contentDir, slug+".md"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) builder() *Builder {
	site := &config.Config{AppURL: "https://example.com", SiteTitle: "Test", ShowDate: true}
	repo := repository.NewPostRepository(content.NewDirSource(f.contentDir))
	blog := service.NewBlogService(repo, markdown.NewParser(), 2)
	return NewBuilder(site, blog,
		service.NewSitemapService(blog, site.AppURL),
		service.NewFeedService(blog, site.AppURL, site.SiteTitle, ""),
		f.outDir,
		WithManifest(f.manifest),
		WithPublicDir(f.publicDir),
		WithConcurrency(4),
	)
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.outDir, filepath.FromSlash(path)))
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestBuildWritesSite(t *testing.T) {
	f := newFixture(t)

	result, err := f.builder().Build(context.Background(), model.ProductionContext())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, path := range []string{
		"index.html",
		"blog/2/index.html",
		"jan/index.html",
		"feb/index.html",
		"mar/index.html",
		"apr/index.html",
		"404.html",
		"sitemap.xml",
		"rss.xml",
		"robots.txt",
		"assets/css/style.css",
		"img/cover.png",
	} {
		if _, err := os.Stat(filepath.Join(f.outDir, path)); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
	if len(result.Unchanged) != 0 {
		t.Errorf("Unchanged = %v, want none on first build", result.Unchanged)
	}

	index := f.read(t, "index.html")
	if !strings.Contains(index, "March") || !strings.Contains(index, "February") || strings.Contains(index, "April") {
		t.Error("page 1 should list March and February without the draft")
	}
	if !strings.Contains(f.read(t, "blog/2/index.html"), "January") {
		t.Error("page 2 should list January")
	}
	if _, err := os.Stat(filepath.Join(f.outDir, "blog/3/index.html")); !os.IsNotExist(err) {
		t.Error("page 3 should not exist")
	}

	draft := f.read(t, "apr/index.html")
	if strings.Contains(draft, "Apr body") || strings.Contains(draft, "April") || !strings.Contains(draft, "not yet been published") {
		t.Error("production draft page should carry the placeholder only")
	}
}

func TestBuildDevelopmentIncludesDrafts(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder().Build(context.Background(), model.DevelopmentContext())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !strings.Contains(f.read(t, "index.html"), "April") {
		t.Error("development listing should include the draft")
	}
	if !strings.Contains(f.read(t, "apr/index.html"), "Apr body") {
		t.Error("development draft page should render its body")
	}
}

func TestBuildIncremental(t *testing.T) {
	f := newFixture(t)
	b := f.builder()

	first, err := b.Build(context.Background(), model.ProductionContext())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	second, err := b.Build(context.Background(), model.ProductionContext())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if first.BuildID == second.BuildID {
		t.Error("builds share an ID")
	}
	if len(second.Written) != 0 {
		t.Errorf("Written = %v, want nothing on an unchanged rebuild", second.Written)
	}

	f.writePost(t, "feb", "title: February\ndate: 2021-02-01\n", "Feb body edited")
	third, err := b.Build(context.Background(), model.ProductionContext())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !reflect.DeepEqual(third.Written, []string{"feb/index.html"}) {
		t.Errorf("Written = %v, want [feb/index.html]", third.Written)
	}
}

func TestBuildRemovesStale(t *testing.T) {
	f := newFixture(t)
	b := f.builder()

	if _, err := b.Build(context.Background(), model.ProductionContext()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := os.Remove(filepath.Join(f.contentDir, "jan.md")); err != nil {
		t.Fatal(err)
	}

	result, err := b.Build(context.Background(), model.ProductionContext())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"blog/2/index.html", "jan/index.html"}
	if !reflect.DeepEqual(result.Removed, want) {
		t.Errorf("Removed = %v, want %v", result.Removed, want)
	}
	if _, err := os.Stat(filepath.Join(f.outDir, "jan", "index.html")); !os.IsNotExist(err) {
		t.Error("jan/index.html still on disk")
	}
	if _, err := f.manifest.ByPath("jan/index.html"); !errors.Is(err, repository.ErrArtifactNotFound) {
		t.Errorf("unpublished stale row kept: %v", err)
	}
}

func TestBuildFailsOnMalformedPost(t *testing.T) {
	f := newFixture(t)
	f.writePost(t, "broken", "title: Broken\n", "no date")

	_, err := f.builder().Build(context.Background(), model.ProductionContext())
	if !errors.Is(err, repository.ErrMalformedPost) {
		t.Fatalf("Build error = %v, want ErrMalformedPost", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestBuildRejectsReservedSlug(t *testing.T) {
	f := newFixture(t)
	f.writePost(t, "rss.xml", "title: Feed\ndate: 2021-05-01\n", "shadowed")

	_, err := f.builder().Build(context.Background(), model.ProductionContext())
	if !errors.Is(err, repository.ErrConfiguration) {
		t.Fatalf("Build error = %v, want ErrConfiguration", err)
	}
	if !strings.Contains(err.Error(), "rss.xml.md") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	b := f.builder()
	store := storage.NewMemoryStorage()
	p := NewPublisher(f.manifest, store, f.outDir)

	if _, err := b.Build(context.Background(), model.ProductionContext()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	first, err := p.Publish(context.Background())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(first.Uploaded) == 0 || len(first.Skipped) != 0 {
		t.Fatalf("first publish uploaded %d skipped %d", len(first.Uploaded), len(first.Skipped))
	}
	data, contentType, ok := store.Get("feb/index.html")
	if !ok || !strings.Contains(string(data), "Feb body") || !strings.HasPrefix(contentType, "text/html") {
		t.Errorf("feb/index.html not uploaded correctly: ok=%v type=%q", ok, contentType)
	}

	second, err := p.Publish(context.Background())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(second.Uploaded) != 0 {
		t.Errorf("Uploaded = %v, want nothing when unchanged", second.Uploaded)
	}

	f.writePost(t, "feb", "title: February\ndate: 2021-02-01\n", "Feb body edited")
	if err := os.Remove(filepath.Join(f.contentDir, "jan.md")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(context.Background(), model.ProductionContext()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	third, err := p.Publish(context.Background())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if !reflect.DeepEqual(third.Deleted, []string{"blog/2/index.html", "jan/index.html"}) {
		t.Errorf("Deleted = %v", third.Deleted)
	}
	if _, _, ok := store.Get("jan/index.html"); ok {
		t.Error("jan/index.html still published")
	}
	found := false
	for _, path := range third.Uploaded {
		if path == "feb/index.html" {
			found = true
		}
	}
	if !found {
		t.Errorf("Uploaded = %v, want feb/index.html", third.Uploaded)
	}
}

func TestPublishDryRunLeavesManifest(t *testing.T) {
	f := newFixture(t)
	b := f.builder()
	store := storage.NewMemoryStorage()

	if _, err := b.Build(context.Background(), model.ProductionContext()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := NewPublisher(f.manifest, store, f.outDir).Publish(context.Background()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	f.writePost(t, "feb", "title: February\ndate: 2021-02-01\n", "Feb body edited")
	if err := os.Remove(filepath.Join(f.contentDir, "jan.md")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(context.Background(), model.ProductionContext()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	dry, err := NewPublisher(f.manifest, storage.NewMemoryStorage(), f.outDir, WithDryRun()).Publish(context.Background())
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	live, err := NewPublisher(f.manifest, store, f.outDir).Publish(context.Background())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if !reflect.DeepEqual(live.Uploaded, dry.Uploaded) {
		t.Errorf("Uploaded = %v, want what the dry run reported: %v", live.Uploaded, dry.Uploaded)
	}
	if !reflect.DeepEqual(live.Deleted, dry.Deleted) {
		t.Errorf("Deleted = %v, want what the dry run reported: %v", live.Deleted, dry.Deleted)
	}
	if !reflect.DeepEqual(live.Deleted, []string{"blog/2/index.html", "jan/index.html"}) {
		t.Errorf("Deleted = %v", live.Deleted)
	}
	if _, _, ok := store.Get("jan/index.html"); ok {
		t.Error("jan/index.html still published after the live run")
	}
	data, _, _ := store.Get("feb/index.html")
	if !strings.Contains(string(data), "Feb body edited") {
		t.Error("feb/index.html not re-uploaded after the dry run")
	}
}

func TestPublishFirstDryRun(t *testing.T) {
	f := newFixture(t)
	if _, err := f.builder().Build(context.Background(), model.ProductionContext()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	dry, err := NewPublisher(f.manifest, storage.NewMemoryStorage(), f.outDir, WithDryRun()).Publish(context.Background())
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	live, err := NewPublisher(f.manifest, storage.NewMemoryStorage(), f.outDir).Publish(context.Background())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(live.Skipped) != 0 || len(live.Uploaded) != len(dry.Uploaded) {
		t.Errorf("live publish uploaded %d skipped %d, want all %d uploaded", len(live.Uploaded), len(live.Skipped), len(dry.Uploaded))
	}
}

func TestPublishEmptyManifest(t *testing.T) {
	f := newFixture(t)
	p := NewPublisher(f.manifest, storage.NewMemoryStorage(), f.outDir)

	if _, err := p.Publish(context.Background()); !errors.Is(err, ErrNothingBuilt) {
		t.Errorf("Publish error = %v, want ErrNothingBuilt", err)
	}
}

func TestPublishRejectsModifiedOutput(t *testing.T) {
	f := newFixture(t)
	if _, err := f.builder().Build(context.Background(), model.ProductionContext()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(f.outDir, "rss.xml"), []byte("tampered"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewPublisher(f.manifest, storage.NewMemoryStorage(), f.outDir)
	if _, err := p.Publish(context.Background()); err == nil || !strings.Contains(err.Error(), "rss.xml") {
		t.Errorf("Publish error = %v, want complaint about rss.xml", err)
	}
}

func TestHash(t *testing.T) {
	a, b := Hash([]byte("a")), Hash([]byte("b"))
	if a == b || len(a) != 64 {
		t.Errorf("Hash gave %q and %q, want distinct 64-char digests", a, b)
	}
}
