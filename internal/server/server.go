package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xurxxo/termfolio/internal/docs"
	"github.com/xurxxo/termfolio/internal/httputil"
	"github.com/xurxxo/termfolio/internal/ratelimit"
	"github.com/xurxxo/termfolio/internal/site"
)

const (
	defaultContactRate  = 0.2
	defaultContactBurst = 3
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Pinger       Pinger
	SiteFS       fs.FS
	BaseURL      string
	AssetOrigins string
	EnableDocs   bool
	// Contact handles POST /send-email; the route is absent when nil.
	Contact      http.HandlerFunc
	ContactRate  float64
	ContactBurst int
}

type Server struct {
	router     chi.Router
	pinger     Pinger
	siteFS     fs.FS
	contact    http.HandlerFunc
	limiter    *ratelimit.Limiter
	enableDocs bool
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:      cfg.BaseURL,
		AssetOrigins: cfg.AssetOrigins,
	}))

	s := &Server{router: r, pinger: cfg.Pinger, siteFS: cfg.SiteFS, contact: cfg.Contact, enableDocs: cfg.EnableDocs}

	if s.contact != nil {
		rate, burst := cfg.ContactRate, cfg.ContactBurst
		if rate <= 0 {
			rate = defaultContactRate
		}
		if burst <= 0 {
			burst = defaultContactBurst
		}
		s.limiter = ratelimit.NewLimiter(rate, burst)
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)

	if s.enableDocs {
		if d, err := docs.New(); err != nil {
			slog.Error("api docs disabled", "error", err)
		} else {
			s.router.Get("/api/docs", d.HandleManual)
			s.router.Get("/api/docs/openapi.yaml", d.HandleSpec)
		}
	}

	if s.contact != nil {
		s.router.With(s.limiter.Middleware).Post("/send-email", s.contact)
	}

	if s.siteFS == nil {
		slog.Warn("no site directory configured, page serving disabled")
		return
	}
	for _, page := range site.Pages {
		s.router.Get(page.Route, pageHandler(s.siteFS, page))
	}
	s.router.Handle("/static/*", staticHandler(s.siteFS))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
