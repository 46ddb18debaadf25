package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetCity handles GET /api/cities/{slug}.
// The slug is resolved against the freshly aggregated city groups; a miss is
// a 404. A resolved city whose second-pass fetch came back empty still
// returns 200 with an empty businesses array — the service has already
// logged the inconsistency.
func (s *Server) GetCity(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	listing, err := s.directory.CityListing(r.Context(), slug)
	if err != nil {
		s.respondError(w, r, err, "city not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, listing)
}
