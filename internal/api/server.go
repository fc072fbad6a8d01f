package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/412449-PICCO/generadorDiplos/internal/api/handler"
	mw "github.com/412449-PICCO/generadorDiplos/internal/api/middleware"
	"github.com/412449-PICCO/generadorDiplos/internal/config"
	"github.com/412449-PICCO/generadorDiplos/internal/core"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	pool     *pgxpool.Pool
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, services *core.Services, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		pool:     pool,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	if len(s.cfg.CORSAllowedOrigins) > 0 {
		s.router.Use(mw.CORS(s.cfg.CORSAllowedOrigins))
	}
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	cert := handler.NewCertificate(s.services.Certificate, s.services.Generator, s.cfg.MaxBatchSize)
	admin := handler.NewAdmin(s.services.AdminAuth, s.services.Certificate, s.services.Notifier, s.services.Exporter)

	// Public certificate routes.
	s.router.Group(func(r chi.Router) {
		if s.cfg.RateLimitEnabled {
			r.Use(httprate.LimitByIP(10, time.Minute))
		}
		r.Post("/generate", cert.Generate)
		r.Get("/search/email/{q}", cert.SearchEmail)
		r.Get("/search/name/{q}", cert.SearchName)
	})

	s.router.Group(func(r chi.Router) {
		if s.cfg.RateLimitEnabled {
			r.Use(httprate.LimitByIP(60, time.Minute))
		}
		r.Get("/certificate/{slug}", cert.View)
		r.Get("/download/{slug}", cert.Download)
		r.Get("/preview/{slug}", cert.Preview)
		r.Get("/pdf/{slug}", cert.PDF)
		r.Get("/list", cert.List)
	})

	// Admin panel routes.
	s.router.Group(func(r chi.Router) {
		if s.cfg.RateLimitEnabled {
			r.Use(httprate.LimitByIP(5, time.Minute))
		}
		r.Post("/admin/login", admin.Login)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(mw.AdminSession(s.services.AdminAuth))
		r.Post("/admin/logout", admin.Logout)
		r.Get("/admin/stats", admin.Stats)
		r.Post("/admin/generate", cert.Generate)
		r.Get("/admin/export", admin.Export)
		r.Post("/admin/send-emails", admin.SendEmails)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
