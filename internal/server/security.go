package server

import (
	"fmt"
	"net/http"
	"strings"
)

type SecurityConfig struct {
	BaseURL string
	// AssetOrigins is a space separated list of extra origins allowed to
	// serve styles and fonts, e.g. a web font CDN.
	AssetOrigins string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := cfg.BaseURL != "" && hasHTTPS(cfg.BaseURL)

	assetSuffix := ""
	if origins := strings.TrimSpace(cfg.AssetOrigins); origins != "" {
		assetSuffix = " " + origins
	}

	csp := fmt.Sprintf(
		"default-src 'self'; img-src 'self' data:; script-src 'self'; style-src 'self'%s; font-src 'self'%s; connect-src 'self'; form-action 'self'; frame-ancestors 'none';",
		assetSuffix, assetSuffix,
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), display-capture=()")
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasHTTPS(baseURL string) bool {
	return strings.HasPrefix(baseURL, "https://")
}
