package middleware

import (
	"interview-api/internal/logger"
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.LogEvent(logrus.ErrorLevel, "Panic while handling request", logrus.Fields{
					"method": r.Method,
					"url":    r.URL.Path,
					"panic":  rec,
					"stack":  string(debug.Stack()),
				})
				writeError(w, http.StatusInternalServerError, "An unexpected server error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
