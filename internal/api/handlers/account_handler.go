package handlers

import (
	"interview-api/internal/pkg/errors"
	"interview-api/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

type AccountHandler struct {
	accountService services.AccountService
}

func NewAccountHandler(accountService services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type createAccountRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type setPremiumRequest struct {
	Premium *bool `json:"premium"`
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	account, err := h.accountService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "A user with that userId was not found")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" || req.Email == "" {
		respondWithError(w, http.StatusBadRequest, "userId and email are required")
		return
	}

	account, err := h.accountService.Create(r.Context(), req.UserID, req.Email)
	if err != nil {
		if errors.Is(err, errors.ErrAlreadyExists) {
			respondWithError(w, http.StatusConflict, "Account with that id or email already exists")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := h.accountService.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "That account does not exist")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Account successfully deleted"})
}

func (h *AccountHandler) SetPremium(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req setPremiumRequest
	if err := decodeJSON(r, &req); err != nil || req.Premium == nil {
		respondWithError(w, http.StatusBadRequest, "premium is required")
		return
	}

	account, err := h.accountService.SetPremium(r.Context(), userID, *req.Premium)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "A user with that userId was not found")
			return
		}
		respondWithServiceError(w, r, err, "")
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}
