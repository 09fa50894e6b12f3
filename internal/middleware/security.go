package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeaders sets the response headers every page shares. Inline
// scripts are only allowed with the request nonce; images may come from
// anywhere since post covers can be remote.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scriptSrc := "script-src 'self'"
		if nonce := GetNonce(r.Context()); nonce != "" {
			scriptSrc += " 'nonce-" + nonce + "'"
		}

		csp := strings.Join([]string{
			"default-src 'self'",
			scriptSrc,
			"style-src 'self' 'unsafe-inline'",
			"img-src 'self' data: https:",
			"font-src 'self'",
			"object-src 'none'",
			"base-uri 'self'",
			"frame-ancestors 'none'",
		}, "; ")

		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
