// Package api provides the read-only HTTP API that serves listings to the
// browsing frontend.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/listing-sync/internal/logging"
	"github.com/listing-sync/internal/models"
)

// ListingStore is the read path into the listing table.
type ListingStore interface {
	Search(ctx context.Context, params *models.PropertySearchParams) (*models.PropertyResponse, error)
	GetByID(ctx context.Context, listingID string) (*models.PropertyView, error)
	InsightsSummary(ctx context.Context) (*models.InsightsSummary, error)
}

// ResponseCache caches search responses between syncs.
type ResponseCache interface {
	Get(ctx context.Context, params *models.PropertySearchParams) (*models.PropertyResponse, error)
	Set(ctx context.Context, params *models.PropertySearchParams, resp *models.PropertyResponse) error
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	store      ListingStore
	cache      ResponseCache // optional
	db         Pinger
	config     *ServerConfig
	logger     *logging.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	FrontendOrigin  string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, store ListingStore, cache ResponseCache, db Pinger, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	s := &Server{
		router: mux.NewRouter(),
		store:  store,
		cache:  cache,
		db:     db,
		config: config,
		logger: logger,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(CORSMiddleware(s.config.FrontendOrigin))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/properties", s.handleGetProperties).Methods("GET")
	api.HandleFunc("/properties/{id}", s.handleGetProperty).Methods("GET")
	api.HandleFunc("/insights/summary", s.handleInsightsSummary).Methods("GET")
}

// Router returns the configured router, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening for requests.
func (s *Server) Start() error {
	s.logger.Infof("API server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
