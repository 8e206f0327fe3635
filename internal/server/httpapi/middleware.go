package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/server/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// claimsFrom extracts the authenticated claims stored by the authenticate
// middleware. The bool is false on routes that skipped authentication.
func claimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// authenticate validates the Bearer token and stores its claims in the
// request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, r, common.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, r, common.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireFirmMatch rejects requests whose path firm differs from the token's
// firm claim. A mismatch is a tenant-isolation attempt and is logged as such.
func (s *Server) requireFirmMatch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r.Context())
		if !ok {
			s.writeError(w, r, common.ErrUnauthorized)
			return
		}

		firmID := chi.URLParam(r, "firmID")
		if firmID != claims.FirmID {
			s.logger.Warn(r.Context(), "firm mismatch between token and path",
				"token_firm", claims.FirmID, "path_firm", firmID, "user_id", claims.UserID)
			s.writeError(w, r, common.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
