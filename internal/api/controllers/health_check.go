package controllers

import (
	"context"
	"encoding/json"
	"interview-api/internal/database"
	"interview-api/internal/services"
	"net/http"
	"time"

	"gorm.io/gorm"
)

const healthCheckTimeout = 3 * time.Second

type HealthCheckResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HealthCheckHandler reports whether the database and, when configured, the cache
// are reachable. Any failing dependency turns the response into a 503.
func HealthCheckHandler(db *gorm.DB, cache services.CacheService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		response := HealthCheckResponse{
			Status:   "API is running",
			Database: "Database connection is healthy",
			Cache:    "Cache disabled",
		}
		status := http.StatusOK

		if err := database.Ping(ctx, db); err != nil {
			response.Database = "Database connection failed"
			status = http.StatusServiceUnavailable
		}

		if cache != nil {
			response.Cache = "Cache connection is healthy"
			if err := cache.Ping(ctx); err != nil {
				response.Cache = "Cache connection failed"
				status = http.StatusServiceUnavailable
			}
		}

		respondWithJSON(w, status, response)
	}
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
