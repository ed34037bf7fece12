// Package api exposes the converter over HTTP. Each request converts one
// document in isolation; the server holds no per-document state.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/md2json/internal/config"
)

// Server routes conversion requests. Build one with NewServer and hand it to
// an http.Server as its handler.
type Server struct {
	mux chi.Router
	log *slog.Logger
	cfg config.Config
}

// NewServer wires the routes for cfg. A non-empty cfg.APIKey puts the
// /api routes behind bearer-token auth; /health is always open.
func NewServer(log *slog.Logger, cfg config.Config) *Server {
	s := &Server{log: log, cfg: cfg}
	s.mux = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, RequestLogger(s.log), middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.Post("/convert", s.handleConvert)
	})
	return r
}

type healthResponse struct {
	Status         string `json:"status"`
	MaxUploadBytes int64  `json:"max_upload_bytes"`
	AuthRequired   bool   `json:"auth_required"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status:         "ok",
		MaxUploadBytes: s.cfg.MaxUploadBytes,
		AuthRequired:   s.cfg.APIKey != "",
	})
}
