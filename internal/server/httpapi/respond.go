package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lexdraft/lexdraft/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status. Encoding failures at this point
// can only be logged; headers are already out.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), "encoding response", "error", err)
	}
}

// statusFor maps the sentinel error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	default:
		// ErrConversionFailed, ErrArtifactStore, ErrInternal and anything
		// unclassified.
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		// Internal details stay out of the response body.
		s.writeJSON(w, r, status, errorResponse{Error: "internal error"})
		return
	}
	s.writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

// decodeJSON parses the request body into dst, mapping malformed payloads to
// the validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrValidation
	}
	return nil
}
