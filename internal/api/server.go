// Package api provides the HTTP API server and handlers for the record shop.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/recordshopapp/recordshop-server/internal/config"
	"github.com/recordshopapp/recordshop-server/internal/service"
	"github.com/recordshopapp/recordshop-server/internal/session"
	"github.com/recordshopapp/recordshop-server/internal/store"
)

// apiVersion is reported in the OpenAPI document.
const apiVersion = "1.0.0"

// Services groups the business logic services used by the API server.
type Services struct {
	Auth      *service.AuthService
	Accounts  *service.AccountService
	Albums    *service.AlbumService
	Purchases *service.PurchaseService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg      *config.Config
	store    store.Store
	sessions *session.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
	httpSrv  *http.Server
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(cfg *config.Config, st store.Store, sessions *session.Store, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig(cfg.Server.Name, apiVersion)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "opaque",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerAccountRoutes()
	s.registerAlbumRoutes()
	s.registerPurchaseRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(sessionMiddleware(s.services.Auth))
}

// Start begins serving HTTP requests. It blocks until the server stops.
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	s.logger.Info("http server listening", "addr", addr)

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
