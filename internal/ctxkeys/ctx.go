package ctxkeys

import (
	"context"

	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	URLPathKey       contextKey = "url_path"
	ConfigKey        contextKey = "config"
	RenderContextKey contextKey = "render_context"
)

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

// RenderContext defaults to production when the request carries none.
func RenderContext(ctx context.Context) model.RenderContext {
	rc, ok := ctx.Value(RenderContextKey).(model.RenderContext)
	if !ok {
		return model.ProductionContext()
	}
	return rc
}

func WithRenderContext(ctx context.Context, rc model.RenderContext) context.Context {
	return context.WithValue(ctx, RenderContextKey, rc)
}
