package middleware

import (
	"net/http"

	"github.com/templui/blogfeed/internal/ctxkeys"
)

// WithURLPath adds the request path to the context.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxkeys.WithURLPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
