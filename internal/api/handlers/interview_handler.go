package handlers

import (
	"interview-api/internal/models"
	"interview-api/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

type InterviewHandler struct {
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

type saveInterviewRequest struct {
	Messages       models.Messages `json:"messages"`
	QuestionNumber int             `json:"questionNumber"`
}

type feedbackRequest struct {
	Feedback *struct {
		Message string `json:"message"`
	} `json:"feedback"`
}

func (h *InterviewHandler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	interviews, err := h.interviewService.List(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	if interviews == nil {
		interviews = []models.Interview{}
	}
	respondWithJSON(w, http.StatusOK, interviews)
}

func (h *InterviewHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	detail, err := h.interviewService.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// SaveInterview answers 200 for an updated transcript and 201 for a new interview.
func (h *InterviewHandler) SaveInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	var req saveInterviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing body parameters")
		return
	}

	interview, created, err := h.interviewService.Save(r.Context(), userID, mux.Vars(r)["id"], req.Messages, req.QuestionNumber)
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, interview)
}

func (h *InterviewHandler) SetFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil || req.Feedback == nil {
		respondWithError(w, http.StatusBadRequest, "Missing feedback")
		return
	}

	interview, err := h.interviewService.SetFeedback(r.Context(), userID, mux.Vars(r)["id"], req.Feedback.Message)
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, interview)
}

func (h *InterviewHandler) DeleteInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := services.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing Auth")
		return
	}

	if err := h.interviewService.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InterviewHandler) DeleteUserInterviews(w http.ResponseWriter, r *http.Request) {
	callerID, _ := services.UserIDFromContext(r.Context())

	if err := h.interviewService.DeleteAllForUser(r.Context(), callerID, mux.Vars(r)["userId"]); err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
