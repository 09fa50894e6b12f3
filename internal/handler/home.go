package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/templui/blogfeed/internal/ctxkeys"
	"github.com/templui/blogfeed/internal/repository"
	"github.com/templui/blogfeed/internal/service"
	"github.com/templui/blogfeed/internal/ui"
	"github.com/templui/blogfeed/internal/ui/pages"
)

type HomeHandler struct {
	blogService *service.BlogService
	public      fs.FS
}

func NewHomeHandler(blogService *service.BlogService, public fs.FS) *HomeHandler {
	return &HomeHandler{
		blogService: blogService,
		public:      public,
	}
}

// HomePage is the first listing page.
func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.blogService.Page(ctxkeys.RenderContext(r.Context()), 1)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ui.Render(w, r, pages.Listing(page))
}

// NotFoundPage is the fallback route. Files in the public directory, such
// as cover images, are served before giving up.
func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	if servePublic(w, r, h.public) {
		return
	}
	notFound(w, r)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

// renderError shows the not-found page for lookups that miss and a plain 500
// for everything else.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		notFound(w, r)
		return
	}

	slog.Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
