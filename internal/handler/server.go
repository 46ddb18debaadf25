// Package handler implements the HTTP handlers for the directory API.
// All handlers are methods on Server. Methods are split into route-specific
// files (directory.go, city.go, sitemap.go, ...) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atozofsigns/directory-api/internal/domain"
)

// DirectoryServicer defines the business operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type DirectoryServicer interface {
	Overview(ctx context.Context) (domain.DirectoryOverview, error)
	CityListing(ctx context.Context, slug string) (domain.CityListing, error)
	BusinessBySlug(ctx context.Context, slug string) (domain.Business, error)
	Sitemap(ctx context.Context) (domain.SitemapIndex, error)
}

// Server holds the dependencies shared by every HTTP handler.
type Server struct {
	directory DirectoryServicer
	baseURL   string // absolute site origin for sitemap URLs, no trailing slash
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(directory DirectoryServicer, baseURL string, log *slog.Logger) *Server {
	return &Server{directory: directory, baseURL: baseURL, log: log}
}

// Routes returns the router with every API endpoint registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/sitemap.xml", s.GetSitemap)
	r.Route("/api", func(r chi.Router) {
		r.Get("/directory", s.GetDirectory)
		r.Get("/cities/{slug}", s.GetCity)
		r.Get("/businesses/{slug}", s.GetBusiness)
	})
	return r
}

// writeJSON encodes v as the response body with the given status.
// Encoding failures are logged rather than surfaced — the status line has
// already been written by then.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.ErrorContext(r.Context(), "encode response", "error", err)
	}
}
