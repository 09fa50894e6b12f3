package app

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/content"
	"github.com/templui/blogfeed/internal/db"
	"github.com/templui/blogfeed/internal/markdown"
	"github.com/templui/blogfeed/internal/repository"
	"github.com/templui/blogfeed/internal/service"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	PostRepository *repository.PostRepository
	Renderer       markdown.Renderer
	BlogService    *service.BlogService
	SitemapService *service.SitemapService
	FeedService    *service.FeedService
}

func New(cfg *config.Config) (*App, error) {
	policy, err := repository.ParseMalformedPolicy(cfg.MalformedPolicy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse malformed policy: %v", err)
	}

	// Repositories
	postRepository := repository.NewPostRepository(
		content.NewDirSource(cfg.ContentPath),
		repository.WithMalformedPolicy(policy),
		repository.WithImageFS(os.DirFS(cfg.PublicPath)),
	)

	// Services
	renderer := markdown.NewParser()
	blogService := service.NewBlogService(postRepository, renderer, cfg.PostsPerPage)
	sitemapService := service.NewSitemapService(blogService, cfg.AppURL)
	feedService := service.NewFeedService(blogService, cfg.AppURL, cfg.SiteTitle, cfg.SiteDescription)

	return &App{
		Cfg:            cfg,
		PostRepository: postRepository,
		Renderer:       renderer,
		BlogService:    blogService,
		SitemapService: sitemapService,
		FeedService:    feedService,
	}, nil
}

// Manifest opens the build manifest database on first use. The HTTP server
// never needs it.
func (a *App) Manifest() (repository.ArtifactRepository, error) {
	if a.DB == nil {
		database, err := db.Init(a.Cfg.DBDriver, a.Cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %v", err)
		}

		err = db.RunMigrations(database.DB, a.Cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %v", err)
		}
		a.DB = database
	}

	return repository.NewArtifactRepository(a.DB), nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
