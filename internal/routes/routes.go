package routes

import (
	"io/fs"
	"net/http"
	"os"

	"github.com/templui/blogfeed/assets"
	"github.com/templui/blogfeed/internal/app"
	"github.com/templui/blogfeed/internal/handler"
	"github.com/templui/blogfeed/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	public := os.DirFS(app.Cfg.PublicPath)
	home := handler.NewHomeHandler(app.BlogService, public)
	blog := handler.NewBlogHandler(app.BlogService, public)
	seo := handler.NewSEOHandler(app.SitemapService, app.FeedService, app.Cfg.PublicPath, app.Cfg.AppURL)

	mux := http.NewServeMux()

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)
	mux.HandleFunc("GET /rss.xml", seo.Feed)

	// Blog
	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /blog/{page}", blog.ListPage)
	mux.HandleFunc("GET /{slug}", blog.ShowPost)

	// Public files, then 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config first: handlers and pages read the render context from it
		middleware.NonceMiddleware, // Must run before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.WithURLPath,
	)

	return handler
}
