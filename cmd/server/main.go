package main

import (
	"log/slog"
	"net/http"

	"github.com/templui/blogfeed/internal/app"
	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/logger"
	"github.com/templui/blogfeed/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	slugs, err := app.BlogService.Slugs()
	if err != nil {
		slog.Error("failed to read content", "path", cfg.ContentPath, "error", err)
		panic(err)
	}

	handler := routes.SetupRoutes(app)
	slog.Info("server starting",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"posts", len(slugs),
		"url", "http://localhost:"+cfg.Port,
	)

	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}
