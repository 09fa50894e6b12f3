package handler

import (
	"net/http"

	"github.com/templui/blogfeed/internal/ctxkeys"
	"github.com/templui/blogfeed/internal/service"
)

type SEOHandler struct {
	sitemapService *service.SitemapService
	feedService    *service.FeedService
	publicPath     string
	baseURL        string
}

func NewSEOHandler(sitemapService *service.SitemapService, feedService *service.FeedService, publicPath, baseURL string) *SEOHandler {
	return &SEOHandler{
		sitemapService: sitemapService,
		feedService:    feedService,
		publicPath:     publicPath,
		baseURL:        baseURL,
	}
}

// Robots serves public/robots.txt, or a permissive default pointing at the
// sitemap.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(service.Robots(h.publicPath, h.baseURL))
}

func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.sitemapService.GenerateSitemap(ctxkeys.RenderContext(r.Context()))
	if err != nil {
		renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(sitemap)
}

func (h *SEOHandler) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.feedService.GenerateFeed(ctxkeys.RenderContext(r.Context()))
	if err != nil {
		renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write(feed)
}
