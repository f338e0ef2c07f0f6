package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/challenge-solver/internal/analysis"
	"github.com/jonathan/challenge-solver/internal/capture"
	"github.com/jonathan/challenge-solver/internal/config"
	"github.com/jonathan/challenge-solver/internal/db"
	"github.com/jonathan/challenge-solver/internal/server/middleware"
)

// Solver runs one full challenge analysis. Satisfied by analysis.Orchestrator.
type Solver interface {
	Analyze(ctx context.Context, markup string, images []image.Image) analysis.Outcome
}

// CaptureFunc pulls a live challenge off a page.
type CaptureFunc func(ctx context.Context, url string) (*capture.Challenge, error)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	solver      Solver
	capture     CaptureFunc
	jwtService  *JWTService
	authHandler *AuthHandler
	validator   *validator.Validate
	verbose     bool
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string // empty disables run persistence
	Vision      config.Vision
	Verbose     bool
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	s := &Server{
		solver:    analysis.New(cfg.Vision, cfg.Verbose),
		validator: validator.New(),
		verbose:   cfg.Verbose,
	}
	s.capture = func(ctx context.Context, url string) (*capture.Challenge, error) {
		opts := capture.DefaultOptions()
		opts.Verbose = cfg.Verbose
		return capture.FromPage(ctx, url, opts)
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = database
	}

	credentials, err := config.NewCredentialConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create credential config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(credentials, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // capture plus analysis can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler builds the routed handler stack. Exposed for httptest.
func (s *Server) Handler() http.Handler {
	requireAuth := middleware.AuthMiddleware(s.jwtService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("POST /solve", requireAuth(http.HandlerFunc(s.handleSolve)))
	mux.Handle("GET /runs", requireAuth(http.HandlerFunc(s.handleListRuns)))
	mux.Handle("GET /runs/{id}", requireAuth(http.HandlerFunc(s.handleGetRun)))
	mux.Handle("GET /runs/{id}/artifacts/{step}", requireAuth(http.HandlerFunc(s.handleGetArtifact)))

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
