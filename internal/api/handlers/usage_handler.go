package handlers

import (
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/services"
	"net/http"
)

type UsageHandler struct {
	usageService services.UsageService
}

func NewUsageHandler(usageService services.UsageService) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

type incrementRequest struct {
	Type string `json:"type"`
}

// GetUsage returns today's counters, answering 201 when the record was just created.
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	usage, created, err := h.usageService.GetUsage(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, usage)
}

func (h *UsageHandler) CreateUsage(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	usage, err := h.usageService.CreateUsage(r.Context(), userID)
	if err != nil {
		if errors.Is(err, errors.ErrAlreadyExists) {
			respondWithError(w, http.StatusConflict, "User already has a usage input")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusCreated, usage)
}

func (h *UsageHandler) IncrementUsage(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	var req incrementRequest
	if err := decodeJSON(r, &req); err != nil || req.Type == "" {
		respondWithError(w, http.StatusBadRequest, "Missing type field")
		return
	}
	capability, ok := models.ParseCapability(req.Type)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Unknown usage type: "+req.Type)
		return
	}

	usage, err := h.usageService.IncrementUsage(r.Context(), userID, capability)
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, usage)
}
