package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/templui/blogfeed/internal/ctxkeys"
	"github.com/templui/blogfeed/internal/model"
	"github.com/templui/blogfeed/internal/repository"
	"github.com/templui/blogfeed/internal/service"
	"github.com/templui/blogfeed/internal/ui"
	"github.com/templui/blogfeed/internal/ui/pages"
)

type BlogHandler struct {
	blogService *service.BlogService
	public      fs.FS
}

func NewBlogHandler(blogService *service.BlogService, public fs.FS) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		public:      public,
	}
}

// ListPage serves /blog/{page}. Page 1 lives at the site root.
func (h *BlogHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || n < 1 {
		notFound(w, r)
		return
	}
	if n == 1 {
		http.Redirect(w, r, model.PagePath(1), http.StatusMovedPermanently)
		return
	}

	page, err := h.blogService.Page(ctxkeys.RenderContext(r.Context()), n)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.Render(w, r, pages.Listing(page))
}

// ShowPost serves /{slug}. Top-level public files such as favicon.ico share
// the pattern and are tried when no post matches.
func (h *BlogHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		notFound(w, r)
		return
	}

	rc := ctxkeys.RenderContext(r.Context())
	post, err := h.blogService.Post(rc, slug)
	if errors.Is(err, repository.ErrNotFound) && servePublic(w, r, h.public) {
		return
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	html, err := h.blogService.HTML(post)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.Render(w, r, pages.Detail(post, html, rc))
}
