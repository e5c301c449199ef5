package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/newsgrid/newsgrid/internal/config"
	"github.com/newsgrid/newsgrid/internal/homepage"
	"github.com/newsgrid/newsgrid/internal/resolver"
	"github.com/newsgrid/newsgrid/internal/server/middleware"
	"github.com/newsgrid/newsgrid/internal/store/postgres"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	sites      *resolver.Service
	composer   *homepage.Composer
	cfg        *config.Config
}

// New creates a Server with all routes wired. Every delivery route runs
// behind hostname resolution; admin and health routes deliberately do not.
// ctx bounds the rate limiter cleanup goroutines.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, sites *resolver.Service, composer *homepage.Composer) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Site-Host", "X-Tenant-Slug", "X-Tenant-ID", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler)

	s := &Server{
		router:   router,
		store:    store,
		sites:    sites,
		composer: composer,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Site-scoped delivery routes behind hostname resolution.
	// 2. Admin routes behind the static token only.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateBurst))
			r.Use(middleware.ResolveSite(sites))
			r.Use(middleware.RateLimitByTenant(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateBurst))

			deliveryConfig := huma.DefaultConfig("NewsGrid Delivery API", "1.0.0")
			deliveryConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			deliveryAPI := humachi.New(r, deliveryConfig)
			registerDeliveryRoutes(deliveryAPI, store, composer)
		})

		r.Group(func(r chi.Router) {
			adminConfig := huma.DefaultConfig("NewsGrid Admin API", "1.0.0")
			adminConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			adminAPI := humachi.New(r, adminConfig)
			registerAdminRoutes(adminAPI, sites, cfg.Admin.Token)
		})
	})

	// Health check (unauthenticated, no site resolution).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
