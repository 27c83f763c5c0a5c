package services

import (
	"context"
	"interview-api/internal/logger"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const questionListKey = "questions:all"

type QuestionService interface {
	List(ctx context.Context) ([]models.Question, error)
	Random(ctx context.Context) (*models.Question, error)
	GetByNumber(ctx context.Context, number int) (*models.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, id uuid.UUID, patch models.QuestionPatch) (*models.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type questionService struct {
	repo  repository.QuestionRepository
	cache CacheService
	ttl   time.Duration
}

func NewQuestionService(repo repository.QuestionRepository, cache CacheService, ttl time.Duration) QuestionService {
	return &questionService{repo: repo, cache: cache, ttl: ttl}
}

func (s *questionService) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if getCached(ctx, s.cache, questionListKey, &questions) {
		return questions, nil
	}

	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, questionListKey, questions, s.ttl); err != nil {
			logger.LogEvent(logrus.WarnLevel, "Failed to cache question list", logrus.Fields{"error": err.Error()})
		}
	}
	return questions, nil
}

func (s *questionService) Random(ctx context.Context) (*models.Question, error) {
	q, err := s.repo.GetRandom(ctx)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, &errors.Error{Err: errors.ErrNotFound, Message: "No questions found", Code: "NOT_FOUND"}
	}
	return q, err
}

func (s *questionService) GetByNumber(ctx context.Context, number int) (*models.Question, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *questionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *questionService) Create(ctx context.Context, question *models.Question) error {
	if question.QuestionNumber <= 0 {
		return errors.Invalid("Missing questionNumber from path")
	}
	if strings.TrimSpace(question.URLSolution) == "" || strings.TrimSpace(question.SolutionRoute) == "" ||
		strings.TrimSpace(question.URLQuestion) == "" || strings.TrimSpace(question.Prompt) == "" {
		return errors.Invalid("Missing attributes in body")
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *questionService) Update(ctx context.Context, id uuid.UUID, patch models.QuestionPatch) (*models.Question, error) {
	q, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return q, nil
}

func (s *questionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *questionService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "questions:*"); err != nil {
		logger.LogEvent(logrus.WarnLevel, "Failed to invalidate question cache", logrus.Fields{"error": err.Error()})
	}
}
