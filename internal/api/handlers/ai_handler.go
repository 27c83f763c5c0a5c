package handlers

import (
	"encoding/json"
	"fmt"
	"interview-api/internal/logger"
	"interview-api/internal/models"
	"interview-api/internal/services"
	"net/http"

	"github.com/sirupsen/logrus"
)

const providerErrorMessage = "Failed to generate response, it is likely that your API key is broken or out of credit"

type AIHandler struct {
	aiService services.AIService
}

func NewAIHandler(aiService services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

type askRequest struct {
	Message string `json:"message"`
}

type streamRequest struct {
	Messages []models.ChatMessage `json:"messages"`
}

func (h *AIHandler) AskAI(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing 'message' field")
		return
	}

	reply, err := h.aiService.Ask(r.Context(), userID, req.Message)
	if err != nil {
		respondWithServiceError(w, r, err, providerErrorMessage)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": reply})
}

// StreamAI relays the completion as server-sent events. Errors found before the
// first fragment get a normal JSON error response.
func (h *AIHandler) StreamAI(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	var req streamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing 'messages' field")
		return
	}

	sse := &sseWriter{w: w}
	err := h.aiService.Stream(r.Context(), userID, req.Messages, sse.send)
	if err != nil {
		if !sse.started {
			respondWithServiceError(w, r, err, providerErrorMessage)
			return
		}
		logger.LogEvent(logrus.WarnLevel, "Completion stream aborted", logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		sse.event(map[string]string{"error": providerErrorMessage})
		return
	}

	sse.start()
	fmt.Fprint(w, "data: [DONE]\n\n")
	sse.flush()
}

type sseWriter struct {
	w       http.ResponseWriter
	started bool
}

func (s *sseWriter) start() {
	if s.started {
		return
	}
	s.started = true
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	s.w.WriteHeader(http.StatusOK)
}

func (s *sseWriter) send(content string) error {
	return s.event(map[string]string{"content": content})
}

func (s *sseWriter) event(payload interface{}) error {
	s.start()
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s *sseWriter) flush() {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
}
