package api

import (
	"interview-api/internal/api/controllers"
	"interview-api/internal/api/handlers"
	"interview-api/internal/middleware"
	"interview-api/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Usage     *handlers.UsageHandler
	Accounts  *handlers.AccountHandler
	Questions *handlers.QuestionHandler
	Solutions *handlers.SolutionHandler
	Interview *handlers.InterviewHandler
	AI        *handlers.AIHandler
}

func SetupRoutes(db *gorm.DB, cache services.CacheService, authService services.AuthService, h Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RecoverMiddleware)
	router.Use(middleware.LoggingMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", controllers.HealthCheckHandler(db, cache)).Methods(http.MethodGet)

	usageRouter := router.PathPrefix("/usage").Subrouter()
	usageRouter.Use(middleware.WithAuth(authService))
	usageRouter.HandleFunc("", h.Usage.GetUsage).Methods(http.MethodGet)
	usageRouter.HandleFunc("", h.Usage.CreateUsage).Methods(http.MethodPost)
	usageRouter.HandleFunc("/increment", h.Usage.IncrementUsage).Methods(http.MethodPatch)

	accountRouter := router.PathPrefix("/accounts").Subrouter()
	accountRouter.Use(middleware.ServiceKey(authService))
	accountRouter.HandleFunc("", h.Accounts.CreateAccount).Methods(http.MethodPost)
	accountRouter.HandleFunc("/{userId}", h.Accounts.GetAccount).Methods(http.MethodGet)
	accountRouter.HandleFunc("/{userId}", h.Accounts.DeleteAccount).Methods(http.MethodDelete)
	accountRouter.HandleFunc("/{userId}/premium", h.Accounts.SetPremium).Methods(http.MethodPatch)

	// Question bank reads are public
	router.HandleFunc("/questions", h.Questions.ListQuestions).Methods(http.MethodGet)
	router.HandleFunc("/questions/random-question", h.Questions.RandomQuestion).Methods(http.MethodGet)
	router.HandleFunc("/questions/{questionNumber:[0-9]+}", h.Questions.GetByNumber).Methods(http.MethodGet)
	router.HandleFunc("/question/{id}", h.Questions.GetByID).Methods(http.MethodGet)

	serviceKey := middleware.ServiceKey(authService)
	router.Handle("/questions/{questionNumber}", serviceKey(http.HandlerFunc(h.Questions.CreateQuestion))).Methods(http.MethodPost)
	router.Handle("/question/{id}", serviceKey(http.HandlerFunc(h.Questions.UpdateQuestion))).Methods(http.MethodPatch)
	router.Handle("/question/{id}", serviceKey(http.HandlerFunc(h.Questions.DeleteQuestion))).Methods(http.MethodDelete)

	router.HandleFunc("/solutions", h.Solutions.GetSolution).Methods(http.MethodGet)

	interviewRouter := router.PathPrefix("/interview").Subrouter()
	interviewRouter.Use(middleware.WithAuth(authService))
	interviewRouter.HandleFunc("", h.Interview.ListInterviews).Methods(http.MethodGet)
	interviewRouter.HandleFunc("/user/{userId}", h.Interview.DeleteUserInterviews).Methods(http.MethodDelete)
	interviewRouter.HandleFunc("/{id}", h.Interview.GetInterview).Methods(http.MethodGet)
	interviewRouter.HandleFunc("/{id}", h.Interview.SaveInterview).Methods(http.MethodPost)
	interviewRouter.HandleFunc("/{id}", h.Interview.DeleteInterview).Methods(http.MethodDelete)
	interviewRouter.HandleFunc("/{id}/feedback", h.Interview.SetFeedback).Methods(http.MethodPatch)

	aiRouter := router.PathPrefix("/openai").Subrouter()
	aiRouter.Use(middleware.RequireAuth(authService))
	aiRouter.HandleFunc("/ask-ai", h.AI.AskAI).Methods(http.MethodPost)
	aiRouter.HandleFunc("/stream", h.AI.StreamAI).Methods(http.MethodPost)

	return router
}
