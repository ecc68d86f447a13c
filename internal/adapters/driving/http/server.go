package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// AIRuntime reports whether the AI backends are configured and validated
type AIRuntime interface {
	Ready() bool
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	ingestService driving.IngestService
	chatService   driving.ChatService
	exportService driving.ExportService

	// Infrastructure
	db    Pinger    // document store health check
	store Pinger    // conversation store health check (optional)
	ai    AIRuntime // AI backend readiness (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
	MaxUploadBytes int64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
		MaxUploadBytes: 50 << 20, // 50 MiB
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	logger *slog.Logger,
	ingestService driving.IngestService,
	chatService driving.ChatService,
	exportService driving.ExportService,
	db Pinger,
	store Pinger, // can be nil
	ai AIRuntime, // can be nil
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}

	s := &Server{
		router:        http.NewServeMux(),
		version:       cfg.Version,
		logger:        logger,
		ingestService: ingestService,
		chatService:   chatService,
		exportService: exportService,
		db:            db,
		store:         store,
		ai:            ai,
	}

	s.setupRoutes(cfg)

	handler := NewRecoveryMiddleware(logger).Handler(
		NewCORSMiddleware(cfg.AllowedOrigins).Handler(
			NewLoggingMiddleware(logger).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: chat responses stream for as long as
		// generation takes.
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Handler exposes the full middleware-wrapped handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config) {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Document endpoints
	s.router.Handle("POST /upload", s.uploadLimit(cfg.MaxUploadBytes, http.HandlerFunc(s.handleUpload)))
	s.router.HandleFunc("GET /documents", s.handleListDocuments)

	// Chat endpoints
	s.router.HandleFunc("POST /chat", s.handleChat)
	s.router.HandleFunc("GET /conversations/{id}/history", s.handleHistory)

	// Export endpoints
	s.router.HandleFunc("POST /export", s.handleExport)
	s.router.HandleFunc("GET /download/{filename}", s.handleDownload)
}

// uploadLimit caps the request body size for upload requests
func (s *Server) uploadLimit(maxBytes int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
