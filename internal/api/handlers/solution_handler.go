package handlers

import (
	"interview-api/internal/services"
	"net/http"
	"strconv"
)

type SolutionHandler struct {
	solutionService services.SolutionService
}

func NewSolutionHandler(solutionService services.SolutionService) *SolutionHandler {
	return &SolutionHandler{solutionService: solutionService}
}

func (h *SolutionHandler) GetSolution(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.URL.Query().Get("questionNumber"))
	if err != nil || number <= 0 {
		respondWithError(w, http.StatusBadRequest, "Missing questionNumber from path")
		return
	}

	solution, err := h.solutionService.Find(number)
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, solution)
}
