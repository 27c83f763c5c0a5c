package handlers

import (
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/services"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

type createQuestionRequest struct {
	URLSolution   string `json:"urlSolution"`
	SolutionRoute string `json:"solutionRoute"`
	URLQuestion   string `json:"urlQuestion"`
	Prompt        string `json:"prompt"`
}

func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	respondWithJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) RandomQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.questionService.Random(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["questionNumber"])
	if err != nil || number <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid questionNumber")
		return
	}

	question, err := h.questionService.GetByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Question with that questionNumber does not exist")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseQuestionID(w, r)
	if !ok {
		return
	}

	question, err := h.questionService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Question with that id does not exist")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["questionNumber"])
	if err != nil || number <= 0 {
		respondWithError(w, http.StatusBadRequest, "Missing questionNumber from path")
		return
	}

	var req createQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing attributes in body")
		return
	}

	question := &models.Question{
		QuestionNumber: number,
		URLSolution:    req.URLSolution,
		SolutionRoute:  req.SolutionRoute,
		URLQuestion:    req.URLQuestion,
		Prompt:         req.Prompt,
	}
	if err := h.questionService.Create(r.Context(), question); err != nil {
		if errors.Is(err, errors.ErrAlreadyExists) {
			respondWithError(w, http.StatusConflict, "A question with that questionNumber already exists")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusCreated, question)
}

func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseQuestionID(w, r)
	if !ok {
		return
	}

	var patch models.QuestionPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	question, err := h.questionService.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Question with that id does not exist")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseQuestionID(w, r)
	if !ok {
		return
	}

	if err := h.questionService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Question with that id does not exist")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Question successfully deleted"})
}

func parseQuestionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid question id")
		return uuid.Nil, false
	}
	return id, true
}
