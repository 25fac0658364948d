package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/pose-detector/internal/web/handlers"
	"github.com/kozaktomas/pose-detector/internal/web/static"
)

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.opts.PoseHealth)
	poseHandler := handlers.NewPoseHandler(s.opts.Preview)
	streamHandler := handlers.NewStreamHandler(s.opts.Preview, s.log)
	historyHandler := handlers.NewHistoryHandler(s.opts.Journal, s.log)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Long-lived streams
		r.Get("/stream", streamHandler.MJPEG)
		r.Get("/events", streamHandler.Events)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(30 * time.Second))

			r.Get("/health", healthHandler.Get)
			r.Get("/pose", poseHandler.Get)
			r.Put("/viewport", poseHandler.SetViewport)
			r.Get("/history", historyHandler.List)
		})
	})

	s.router.Get("/", s.serveIndex)
}

// serveIndex serves the preview page
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.Index()
	if err != nil {
		http.Error(w, "preview page missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}
