package middleware

import (
	"interview-api/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// ServiceKey guards the service-to-service routes with the X-API-Key header.
func ServiceKey(authService services.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				writeError(w, http.StatusUnauthorized, "API key is required")
				return
			}
			if !authService.ValidServiceKey(apiKey) {
				writeError(w, http.StatusForbidden, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
