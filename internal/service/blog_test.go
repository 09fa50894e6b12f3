package service

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/templui/blogfeed/internal/content"
	"github.com/templui/blogfeed/internal/markdown"
	"github.com/templui/blogfeed/internal/model"
	"github.com/templui/blogfeed/internal/repository"
)

func post(front, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + front + "---\n" + body)}
}

func threeMonths() fstest.MapFS {
	return fstest.MapFS{
		"jan.md": post("title: January\ndate: 2021-01-01\n", "Jan body\n"),
		"feb.md": post("title: February\ndate: 2021-02-01\nexcerpt: Second\n", "Feb body\n"),
		"mar.md": post("title: March\ndate: 2021-03-01\n", "Mar body\n"),
	}
}

func newBlog(fsys fstest.MapFS, perPage int) *BlogService {
	repo := repository.NewPostRepository(content.NewFSSource(fsys))
	return NewBlogService(repo, markdown.NewParser(), perPage)
}

func pageSlugs(p *model.Page) []string {
	out := make([]string, len(p.Posts))
	for i, post := range p.Posts {
		out[i] = post.Slug
	}
	return out
}

func TestPageOne(t *testing.T) {
	blog := newBlog(threeMonths(), 2)

	page, err := blog.Page(model.ProductionContext(), 1)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}

	if got, want := pageSlugs(page), []string{"mar", "feb"}; !reflect.DeepEqual(got, want) {
		t.Errorf("posts = %v, want %v", got, want)
	}
	if page.Prev != nil {
		t.Errorf("Prev = %d, want nil", *page.Prev)
	}
	if page.Next == nil || *page.Next != 2 {
		t.Errorf("Next = %v, want 2", page.Next)
	}
	if page.TotalPages != 2 || page.TotalPosts != 3 {
		t.Errorf("totals = %d pages / %d posts, want 2 / 3", page.TotalPages, page.TotalPosts)
	}
	for _, p := range page.Posts {
		if p.Has(model.FieldContent) || p.Content != "" {
			t.Errorf("listing post %q carries content", p.Slug)
		}
	}
}

func TestPageTwo(t *testing.T) {
	blog := newBlog(threeMonths(), 2)

	page, err := blog.Page(model.ProductionContext(), 2)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}

	if got, want := pageSlugs(page), []string{"jan"}; !reflect.DeepEqual(got, want) {
		t.Errorf("posts = %v, want %v", got, want)
	}
	if page.Prev == nil || *page.Prev != 1 {
		t.Errorf("Prev = %v, want 1", page.Prev)
	}
	if page.Next != nil {
		t.Errorf("Next = %d, want nil", *page.Next)
	}
}

func TestPageExactFit(t *testing.T) {
	fsys := threeMonths()
	delete(fsys, "jan.md")
	blog := newBlog(fsys, 2)

	page, err := blog.Page(model.ProductionContext(), 1)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if page.Next != nil {
		t.Errorf("Next = %d, want nil when the feed fits one page", *page.Next)
	}
}

func TestPageOutOfRange(t *testing.T) {
	blog := newBlog(threeMonths(), 2)

	for _, n := range []int{0, -1, 3, 100} {
		_, err := blog.Page(model.ProductionContext(), n)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("Page(%d) error = %v, want ErrNotFound", n, err)
		}
	}
}

func TestPageEmptyFeed(t *testing.T) {
	blog := newBlog(fstest.MapFS{}, 2)

	page, err := blog.Page(model.ProductionContext(), 1)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(page.Posts) != 0 || page.Prev != nil || page.Next != nil {
		t.Errorf("empty feed page = %+v, want no posts and no links", page)
	}

	if _, err := blog.Page(model.ProductionContext(), 2); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Page(2) error = %v, want ErrNotFound", err)
	}
}

func TestPageDraftsGatedBeforeSlicing(t *testing.T) {
	fsys := threeMonths()
	fsys["apr.md"] = post("title: April\ndate: 2021-04-01\ndraft: true\n", "Draft\n")
	blog := newBlog(fsys, 2)

	prod, err := blog.Page(model.ProductionContext(), 1)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if got, want := pageSlugs(prod), []string{"mar", "feb"}; !reflect.DeepEqual(got, want) {
		t.Errorf("production posts = %v, want %v", got, want)
	}

	dev, err := blog.Page(model.DevelopmentContext(), 1)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if got, want := pageSlugs(dev), []string{"apr", "mar"}; !reflect.DeepEqual(got, want) {
		t.Errorf("development posts = %v, want %v", got, want)
	}
}

func TestPages(t *testing.T) {
	tests := []struct {
		perPage int
		want    []int
	}{
		{1, []int{1, 2, 3}},
		{2, []int{1, 2}},
		{3, []int{1}},
		{10, []int{1}},
	}

	for _, tt := range tests {
		blog := newBlog(threeMonths(), tt.perPage)
		got, err := blog.Pages(model.ProductionContext())
		if err != nil {
			t.Fatalf("Pages failed: %v", err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Pages with %d per page = %v, want %v", tt.perPage, got, tt.want)
		}
	}
}

func TestPostsPerPageDefault(t *testing.T) {
	blog := newBlog(threeMonths(), 0)
	if blog.PostsPerPage() != DefaultPostsPerPage {
		t.Errorf("PostsPerPage = %d, want %d", blog.PostsPerPage(), DefaultPostsPerPage)
	}
}

func TestPostDetail(t *testing.T) {
	blog := newBlog(threeMonths(), 2)

	p, err := blog.Post(model.ProductionContext(), "feb")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if p.Title != "February" || !strings.Contains(p.Content, "Feb body") {
		t.Errorf("Post = %+v, want February with body", p)
	}
}

func TestPostHTML(t *testing.T) {
	fsys := threeMonths()
	fsys["links.md"] = post("title: Links\ndate: 2021-01-15\n", "See [site](https://example.org).\n")
	blog := newBlog(fsys, 2)

	p, err := blog.Post(model.ProductionContext(), "links")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	html, err := blog.HTML(p)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(string(html), `target="_blank"`) {
		t.Errorf("HTML = %s, want external link attributes", html)
	}
}

func TestPostHTMLWithheldDraft(t *testing.T) {
	fsys := threeMonths()
	fsys["apr.md"] = post("title: April\ndate: 2021-04-01\ndraft: true\n", "Secret\n")
	blog := newBlog(fsys, 2)

	p, err := blog.Post(model.ProductionContext(), "apr")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	html, err := blog.HTML(p)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if len(html) != 0 {
		t.Errorf("HTML = %s, want nothing for a withheld draft", html)
	}
}

func TestSitemap(t *testing.T) {
	fsys := threeMonths()
	fsys["apr.md"] = post("title: April\ndate: 2021-04-01\ndraft: true\n", "Draft\n")
	blog := newBlog(fsys, 2)
	sitemap := NewSitemapService(blog, "https://example.com/")

	out, err := sitemap.GenerateSitemap(model.ProductionContext())
	if err != nil {
		t.Fatalf("GenerateSitemap failed: %v", err)
	}
	xml := string(out)

	for _, want := range []string{
		"<loc>https://example.com/</loc>",
		"<loc>https://example.com/blog/2</loc>",
		"<loc>https://example.com/mar</loc>",
		"<lastmod>2021-03-01</lastmod>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	if strings.Contains(xml, "/apr") {
		t.Error("sitemap lists a draft in production")
	}
}

func TestFeed(t *testing.T) {
	blog := newBlog(threeMonths(), 2)
	feed := NewFeedService(blog, "https://example.com", "Blog", "Posts")

	out, err := feed.GenerateFeed(model.ProductionContext())
	if err != nil {
		t.Fatalf("GenerateFeed failed: %v", err)
	}
	xml := string(out)

	if !strings.Contains(xml, `<rss version="2.0">`) {
		t.Errorf("feed is not RSS 2.0: %s", xml)
	}
	if strings.Index(xml, "March") > strings.Index(xml, "January") {
		t.Error("feed items are not newest first")
	}
	if !strings.Contains(xml, "<description>Second</description>") {
		t.Error("feed item missing excerpt")
	}
	if !strings.Contains(xml, "<guid>https://example.com/feb</guid>") {
		t.Error("feed item missing guid")
	}
}

func TestRobots(t *testing.T) {
	dir := t.TempDir()

	got := string(Robots(dir, "https://example.com/"))
	if !strings.Contains(got, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("default robots = %q, want sitemap line", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "robots.txt"), []byte("User-agent: *\nDisallow: /\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := string(Robots(dir, "https://example.com")); !strings.Contains(got, "Disallow: /") {
		t.Errorf("robots = %q, want file contents", got)
	}
}
