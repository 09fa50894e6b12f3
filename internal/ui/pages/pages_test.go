package pages

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/ctxkeys"
	"github.com/templui/blogfeed/internal/model"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return sb.String()
}

func intPtr(n int) *int {
	return &n
}

func testPost(slug, title string) *model.Post {
	return &model.Post{
		Slug:    slug,
		Title:   title,
		Date:    time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		Excerpt: "An <excerpt>",
		Fields:  model.ListingFields,
	}
}

func TestPostsNavigation(t *testing.T) {
	tests := []struct {
		name      string
		page      *model.Page
		wantNewer string
		wantOlder string
	}{
		{"first", &model.Page{Number: 1, Next: intPtr(2)}, "", `href="/blog/2"`},
		{"second", &model.Page{Number: 2, Prev: intPtr(1), Next: intPtr(3)}, `href="/"`, `href="/blog/3"`},
		{"last", &model.Page{Number: 3, Prev: intPtr(2)}, `href="/blog/2"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.page.Posts = []*model.Post{testPost("a", "A")}
			out := render(t, context.Background(), Posts(tt.page, true))

			hasNewer := strings.Contains(out, "see newer posts")
			if hasNewer != (tt.wantNewer != "") {
				t.Errorf("newer link present = %v, want %v", hasNewer, tt.wantNewer != "")
			}
			if tt.wantNewer != "" && !strings.Contains(out, tt.wantNewer) {
				t.Errorf("output missing %s", tt.wantNewer)
			}
			hasOlder := strings.Contains(out, "see older posts")
			if hasOlder != (tt.wantOlder != "") {
				t.Errorf("older link present = %v, want %v", hasOlder, tt.wantOlder != "")
			}
			if tt.wantOlder != "" && !strings.Contains(out, tt.wantOlder) {
				t.Errorf("output missing %s", tt.wantOlder)
			}
		})
	}
}

func TestPostIntroEscapes(t *testing.T) {
	out := render(t, context.Background(), PostIntro(testPost("a", "Fish & Chips"), true, false))

	if !strings.Contains(out, "Fish &amp; Chips") {
		t.Errorf("title not escaped: %s", out)
	}
	if !strings.Contains(out, "An &lt;excerpt&gt;") {
		t.Errorf("excerpt not escaped: %s", out)
	}
	if !strings.Contains(out, "March 1, 2021") {
		t.Errorf("date missing: %s", out)
	}
}

func TestPostIntroHidesDate(t *testing.T) {
	out := render(t, context.Background(), PostIntro(testPost("a", "A"), false, false))
	if strings.Contains(out, "<time") {
		t.Errorf("date shown with showDate off: %s", out)
	}
}

func TestBlogPostDraftInProduction(t *testing.T) {
	post := testPost("draft", "Secret title")
	post.Draft = true
	post.Author = "Ann"
	post.Fields = model.DetailFields.Without(model.FieldContent)

	out := render(t, context.Background(), BlogPost(post, nil, model.ProductionContext(), true))

	if !strings.Contains(out, "<h1 class=\"text-4xl font-bold\">"+UnpublishedMessage+"</h1>") {
		t.Errorf("placeholder heading missing: %s", out)
	}
	for _, leak := range []string{"Secret title", "Ann", "March 1, 2021", ">Draft</span>"} {
		if strings.Contains(out, leak) {
			t.Errorf("hidden draft shows %q: %s", leak, out)
		}
	}
}

func TestDetailHiddenDraftHead(t *testing.T) {
	cfg := &config.Config{AppURL: "https://example.com", SiteTitle: "Site", ShowDate: true}
	ctx := ctxkeys.WithConfig(context.Background(), cfg)

	post := testPost("draft", "Secret title")
	post.Draft = true
	post.Fields = model.DetailFields.Without(model.FieldContent)

	out := render(t, ctx, Detail(post, nil, model.ProductionContext()))
	if !strings.Contains(out, "<title>Site</title>") {
		t.Errorf("hidden draft title tag should be the site title: %s", out)
	}
	if strings.Contains(out, "Secret title") || strings.Contains(out, "An &lt;excerpt&gt;") {
		t.Errorf("hidden draft leaked into the head: %s", out)
	}
}

func TestBlogPostDraftInDevelopment(t *testing.T) {
	post := testPost("draft", "Draft")
	post.Draft = true

	out := render(t, context.Background(), BlogPost(post, []byte("<p>body</p>"), model.DevelopmentContext(), true))

	if strings.Contains(out, UnpublishedMessage) {
		t.Errorf("placeholder shown in development: %s", out)
	}
	if !strings.Contains(out, ">Draft</span>") || !strings.Contains(out, "<p>body</p>") {
		t.Errorf("draft badge or body missing: %s", out)
	}
}

func TestLayoutMeta(t *testing.T) {
	cfg := &config.Config{
		AppURL:        "https://example.com",
		SiteTitle:     "Site",
		ShareImage:    "/share.png",
		ShareImageAlt: "Share",
		ShowDate:      true,
	}
	ctx := ctxkeys.WithConfig(context.Background(), cfg)
	ctx = templ.WithNonce(ctx, "abc123")

	post := testPost("hello", "Hello")
	post.Fields = model.DetailFields
	out := render(t, ctx, Detail(post, []byte("<p>hi</p>"), model.ProductionContext()))

	for _, want := range []string{
		"<title>Hello | Site</title>",
		`content="https://example.com/hello"`,
		`content="https://example.com/share.png"`,
		`nonce="abc123"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestListingHero(t *testing.T) {
	cfg := &config.Config{SiteTitle: "Site", SiteDescription: "Notes on <things>", ShowDate: true}
	ctx := ctxkeys.WithConfig(context.Background(), cfg)
	posts := []*model.Post{testPost("a", "A")}

	first := render(t, ctx, Listing(&model.Page{Number: 1, Posts: posts, Next: intPtr(2)}))
	if !strings.Contains(first, `<p class="mt-4 text-lg text-gray-600">Notes on &lt;things&gt;</p>`) {
		t.Errorf("first page missing the hero: %s", first)
	}

	second := render(t, ctx, Listing(&model.Page{Number: 2, Posts: posts, Prev: intPtr(1)}))
	if strings.Contains(second, "<section") {
		t.Errorf("hero repeated on page 2: %s", second)
	}
	if !strings.Contains(second, "<title>Page 2 | Site</title>") {
		t.Errorf("page 2 title missing: %s", second)
	}
}

func TestLayoutFooterYear(t *testing.T) {
	cfg := &config.Config{SiteTitle: "Site", SiteAuthor: "Ann", ShowDate: true}
	ctx := ctxkeys.WithConfig(context.Background(), cfg)

	out := render(t, ctx, NotFound())
	if strings.Contains(out, "©") {
		t.Errorf("footer shows a year with none configured: %s", out)
	}
	if !strings.Contains(out, "<span>Ann</span>") {
		t.Errorf("footer missing author: %s", out)
	}

	cfg.CopyrightYear = 2021
	again := render(t, ctx, NotFound())
	if !strings.Contains(again, "<span>© 2021 Ann</span>") {
		t.Errorf("footer missing configured year: %s", again)
	}
	if again != render(t, ctx, NotFound()) {
		t.Error("footer output differs between renders")
	}
}

func TestClassMerge(t *testing.T) {
	got := class("text-xl font-semibold", "text-3xl font-bold")
	if strings.Contains(got, "text-xl") || !strings.Contains(got, "text-3xl") {
		t.Errorf("class = %q, want text-3xl to replace text-xl", got)
	}
}
