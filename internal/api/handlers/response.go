package handlers

import (
	"encoding/json"
	"interview-api/internal/logger"
	"interview-api/internal/pkg/errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

const serverErrorMessage = "An unspecified server error occurred"

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps err onto the API's status codes. Server errors
// are logged and answered with fallback so internals do not leak.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.LogEvent(logrus.ErrorLevel, "Request failed", logrus.Fields{
			"method": r.Method,
			"url":    r.URL.Path,
			"error":  err.Error(),
		})
		if fallback == "" {
			fallback = serverErrorMessage
		}
		respondWithError(w, status, fallback)
		return
	}
	respondWithError(w, status, clientMessage(err, status))
}

func clientMessage(err error, status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Missing Auth"
	case http.StatusPaymentRequired:
		return "Usage limit exceeded"
	}
	var e *errors.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func decodeJSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return errors.Invalid("Invalid request body")
	}
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.Invalid("Invalid request body")
	}
	return nil
}
