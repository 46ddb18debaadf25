package handler

import (
	"net/http"
	"strconv"
)

// defaultCityLimit is how many city cards the home listing shows when the
// client does not ask for a specific number.
const defaultCityLimit = 24

// GetDirectory handles GET /api/directory.
// It returns the home listing: the top N cities by business count plus
// directory-wide totals. N comes from ?limit, defaulting to 24; limit=0
// returns every city. TotalCities and TotalBusinesses always describe the
// whole directory regardless of the limit.
func (s *Server) GetDirectory(w http.ResponseWriter, r *http.Request) {
	overview, err := s.directory.Overview(r.Context())
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	limit := defaultCityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{Code: "bad_request", Message: "limit must be a non-negative integer"},
			})
			return
		}
		limit = n
	}

	if limit > 0 && len(overview.Cities) > limit {
		overview.Cities = overview.Cities[:limit]
	}

	s.writeJSON(w, r, http.StatusOK, overview)
}
