package middleware

import (
	"net/http"

	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/ctxkeys"
)

// Config adds the sanitized site configuration and the render context to
// the request context. Handlers read draft visibility from there.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	site := cfg.Sanitized()
	rc := cfg.RenderContext()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), site)
			ctx = ctxkeys.WithRenderContext(ctx, rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
