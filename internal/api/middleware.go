package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/JonasdeSouza/rusty-weather/internal/auth"
)

type contextKey string

const viewerContextKey = contextKey("viewer")

func (s *Server) jwtMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := ""
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			// Fallback to query param for WebSocket
			tokenStr = r.URL.Query().Get("token")
		}

		if tokenStr == "" {
			http.Error(w, "missing authorization", http.StatusUnauthorized)
			return
		}

		claims, err := s.auth.ValidateToken(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), viewerContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ViewerFromContext returns the claims attached by jwtMiddleware, if any.
func ViewerFromContext(ctx context.Context) (*auth.ViewerClaims, bool) {
	claims, ok := ctx.Value(viewerContextKey).(*auth.ViewerClaims)
	return claims, ok
}
