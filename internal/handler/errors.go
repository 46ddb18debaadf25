package handler

import (
	"errors"
	"net/http"

	"github.com/atozofsigns/directory-api/internal/domain"
)

// ErrorResponse is the JSON body returned for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code plus a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps a service error to the appropriate HTTP response.
// domain.ErrNotFound is a normal outcome and maps to 404; everything else —
// including a failed batch fetch, which means no directory can be rendered
// at all — is a 500 with the detail kept out of the body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	if errors.Is(err, domain.ErrNotFound) {
		s.writeJSON(w, r, http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "not_found", Message: notFoundMessage},
		})
		return
	}

	var fetchErr *domain.FetchRangeError
	if errors.As(err, &fetchErr) {
		s.log.ErrorContext(r.Context(), "directory fetch failed",
			"range", fetchErr.Range.String(),
			"error", fetchErr.Err,
		)
	} else {
		s.log.ErrorContext(r.Context(), "request failed", "error", err)
	}

	s.writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{Code: "internal_error", Message: "internal server error"},
	})
}
