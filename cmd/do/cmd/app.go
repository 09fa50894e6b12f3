package cmd

import (
	"github.com/templui/blogfeed/internal/app"
	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/logger"
)

// loadApp reads the environment, sets up logging and wires the content
// stack. Callers close the returned app.
func loadApp() (*app.App, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	return app.New(cfg)
}
