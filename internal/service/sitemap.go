package service

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/templui/blogfeed/internal/model"
)

type SitemapService struct {
	blogService *BlogService
	baseURL     string
}

func NewSitemapService(blogService *BlogService, baseURL string) *SitemapService {
	return &SitemapService{
		blogService: blogService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
	}
}

// GenerateSitemap lists every listing page and every post visible in rc.
func (s *SitemapService) GenerateSitemap(rc model.RenderContext) ([]byte, error) {
	posts, err := s.blogService.Posts(rc)
	if err != nil {
		return nil, err
	}

	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []model.SitemapURL{},
	}

	var newest string
	if len(posts) > 0 {
		newest = posts[0].Date.Format(time.DateOnly)
	}

	pages := totalPages(len(posts), s.blogService.PostsPerPage())
	for n := 1; n <= pages; n++ {
		priority := "0.5"
		if n == 1 {
			priority = "1.0"
		}
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + model.PagePath(n),
			LastMod:    newest,
			ChangeFreq: "daily",
			Priority:   priority,
		})
	}

	for _, post := range posts {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + model.PostPath(post.Slug),
			LastMod:    post.Date.Format(time.DateOnly),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}
