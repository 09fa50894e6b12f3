package pages

//go:generate go tool templ generate

import (
	"context"
	"strconv"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/ctxkeys"
	"github.com/templui/blogfeed/internal/model"
)

const (
	dateLayout = "January 2, 2006"

	UnpublishedMessage = "This post has not yet been published. Please try again later."
)

// Meta describes the document head of a page.
type Meta struct {
	Title       string
	Description string
	Path        string
	Image       string
	ImageAlt    string
}

func site(ctx context.Context) *config.Config {
	cfg := ctxkeys.Config(ctx)
	if cfg == nil {
		return &config.Config{SiteTitle: "Blog", ShowDate: true}
	}
	return cfg
}

func class(base string, extra ...string) string {
	return twmerge.Merge(append([]string{base}, extra...)...)
}

func pageTitle(cfg *config.Config, meta Meta) string {
	if meta.Title == "" || meta.Title == cfg.SiteTitle {
		return cfg.SiteTitle
	}
	return meta.Title + " | " + cfg.SiteTitle
}

func pageDescription(cfg *config.Config, meta Meta) string {
	if meta.Description != "" {
		return meta.Description
	}
	return cfg.SiteDescription
}

func shareImage(cfg *config.Config, meta Meta) (string, string) {
	if meta.Image != "" {
		return meta.Image, meta.ImageAlt
	}
	return cfg.ShareImage, cfg.ShareImageAlt
}

func footerCredit(cfg *config.Config) string {
	credit := cfg.SiteAuthor
	if cfg.CopyrightYear > 0 {
		credit = "© " + strconv.Itoa(cfg.CopyrightYear) + " " + credit
	}
	return credit
}

func listingMeta(page *model.Page) Meta {
	meta := Meta{Path: model.PagePath(page.Number)}
	if !page.IsFirst() {
		meta.Title = "Page " + strconv.Itoa(page.Number)
	}
	return meta
}

// detailMeta keeps a hidden draft's title and cover out of the head.
func detailMeta(post *model.Post, rc model.RenderContext) Meta {
	meta := Meta{Path: model.PostPath(post.Slug)}
	if post.Hidden(rc) {
		return meta
	}
	meta.Title = post.Title
	meta.Description = post.Excerpt
	meta.Image = post.CoverImage
	meta.ImageAlt = post.CoverAlt()
	return meta
}

func introTitleClass(lead bool) string {
	base := "text-xl font-semibold hover:underline"
	if lead {
		return class(base, "text-3xl font-bold")
	}
	return base
}

func hasCover(post *model.Post) bool {
	return post.Has(model.FieldCoverImage) && post.CoverImage != ""
}

func coverSize(post *model.Post) (string, string, bool) {
	if post.CoverImageWidth <= 0 || post.CoverImageHeight <= 0 {
		return "", "", false
	}
	return strconv.Itoa(post.CoverImageWidth), strconv.Itoa(post.CoverImageHeight), true
}
