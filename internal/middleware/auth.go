package middleware

import (
	"interview-api/internal/logger"
	"interview-api/internal/services"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// WithAuth attaches the caller's identity when a valid bearer token is present.
// It never rejects; handlers decide what a missing identity means.
func WithAuth(authService services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractTokenFromHeader(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.VerifyToken(tokenString)
			if err != nil {
				logger.LogEvent(logrus.DebugLevel, "Ignoring invalid bearer token", logrus.Fields{
					"path":  r.URL.Path,
					"error": err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(services.WithUserID(r.Context(), userID)))
		})
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(authService services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractTokenFromHeader(r)
			if tokenString == "" {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}
			userID, err := authService.VerifyToken(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			next.ServeHTTP(w, r.WithContext(services.WithUserID(r.Context(), userID)))
		})
	}
}

func extractTokenFromHeader(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
