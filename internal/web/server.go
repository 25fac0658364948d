// Package web serves the browser preview of the frame loop.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/pose-detector/internal/config"
	"github.com/kozaktomas/pose-detector/internal/database"
	"github.com/kozaktomas/pose-detector/internal/display"
	"github.com/kozaktomas/pose-detector/internal/logger"
	"github.com/kozaktomas/pose-detector/internal/web/handlers"
	"github.com/kozaktomas/pose-detector/internal/web/middleware"
)

// Options are the server dependencies. Journal and PoseHealth may be nil.
type Options struct {
	Preview    *display.Preview
	Journal    database.Recorder
	PoseHealth handlers.HealthChecker
	Logger     *logrus.Logger
}

// Server represents the web server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	opts       Options
	log        *logrus.Logger
}

// NewServer creates a new web server
func NewServer(cfg config.WebConfig, opts Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		opts:   opts,
		log:    opts.Logger,
	}
	if s.log == nil {
		s.log = logger.Discard()
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute, // streams clear their own deadline
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("Starting web preview")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server. Open streams end when the
// preview is closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down web preview")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
