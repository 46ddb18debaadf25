package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetBusiness handles GET /api/businesses/{slug}.
// Business slugs are stored per row, unlike city slugs which are recomputed
// from aggregation on every request.
func (s *Server) GetBusiness(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	business, err := s.directory.BusinessBySlug(r.Context(), slug)
	if err != nil {
		s.respondError(w, r, err, "business not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, business)
}
