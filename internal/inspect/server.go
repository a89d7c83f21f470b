// Package inspect provides a tiny read-only HTTP server for looking at a
// templater run while it processes an archive: the mined
// template set and, per template, the distinct values recorded at each
// generalized position.
package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fidde/logtemplater/internal/templater"
)

// Server is the read-only inspection server.
type Server struct {
	templater *templater.Templater
	router    *chi.Mux
	server    *http.Server
}

var startTime = time.Now()

// NewServer builds a Server that reports on t's live template set.
func NewServer(addr string, t *templater.Templater) *Server {
	s := &Server{
		templater: t,
		router:    chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/templates", s.listTemplates)
		r.Get("/templates/{index}", s.getTemplate)
	})

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s
}

// Start serves until the process exits or the listener fails.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	AllocMB   uint64    `json:"alloc_mb"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime).String(),
		AllocMB:   m.Alloc / 1024 / 1024,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
