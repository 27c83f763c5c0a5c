package services

import (
	"context"
	"interview-api/internal/logger"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/repository"
	"strings"

	"github.com/sirupsen/logrus"
)

type InterviewService interface {
	List(ctx context.Context, userID string) ([]models.Interview, error)
	Get(ctx context.Context, userID, id string) (*models.InterviewDetail, error)
	// Save updates an existing transcript or starts a new, quota-gated interview.
	Save(ctx context.Context, userID, id string, messages models.Messages, questionNumber int) (interview *models.Interview, created bool, err error)
	SetFeedback(ctx context.Context, userID, id, feedback string) (*models.Interview, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAllForUser(ctx context.Context, callerID, userID string) error
}

type interviewService struct {
	repo       repository.InterviewRepository
	questions  QuestionService
	solutions  SolutionService
	guard      QuotaGuard
	increments *IncrementScheduler
}

func NewInterviewService(
	repo repository.InterviewRepository,
	questions QuestionService,
	solutions SolutionService,
	guard QuotaGuard,
	increments *IncrementScheduler,
) InterviewService {
	return &interviewService{
		repo:       repo,
		questions:  questions,
		solutions:  solutions,
		guard:      guard,
		increments: increments,
	}
}

var (
	errInterviewNotFound = &errors.Error{Err: errors.ErrNotFound, Message: "Interview not found", Code: "NOT_FOUND"}
	errNotOwner          = &errors.Error{Err: errors.ErrForbidden, Message: "Unauthorized", Code: "FORBIDDEN"}
)

func (s *interviewService) List(ctx context.Context, userID string) ([]models.Interview, error) {
	if userID == "" {
		return nil, errors.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *interviewService) owned(ctx context.Context, userID, id string) (*models.Interview, error) {
	if userID == "" {
		return nil, errors.ErrUnauthorized
	}
	interview, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errInterviewNotFound
		}
		return nil, err
	}
	if interview.UserID != userID {
		return nil, errNotOwner
	}
	return interview, nil
}

func (s *interviewService) Get(ctx context.Context, userID, id string) (*models.InterviewDetail, error) {
	interview, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	detail := &models.InterviewDetail{Interview: interview}
	if q, err := s.questions.GetByNumber(ctx, interview.QuestionNumber); err == nil {
		detail.QuestionDetails = q
	} else if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	if sol, err := s.solutions.Find(interview.QuestionNumber); err == nil {
		detail.Solution = sol
	} else {
		logger.LogEvent(logrus.WarnLevel, "No solution for interview question", logrus.Fields{
			"interview_id":    id,
			"question_number": interview.QuestionNumber,
			"error":           err.Error(),
		})
	}
	return detail, nil
}

func (s *interviewService) Save(ctx context.Context, userID, id string, messages models.Messages, questionNumber int) (*models.Interview, bool, error) {
	if userID == "" {
		return nil, false, errors.ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return nil, false, errors.Invalid("Missing interviewId")
	}
	if messages == nil || questionNumber == 0 {
		return nil, false, errors.Invalid("Missing body parameters")
	}

	if _, err := s.questions.GetByNumber(ctx, questionNumber); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, false, &errors.Error{Err: errors.ErrNotFound, Message: "Question not found", Code: "NOT_FOUND"}
		}
		return nil, false, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		if existing.UserID != userID {
			return nil, false, errNotOwner
		}
		if err := s.repo.UpdateTranscript(ctx, id, messages, questionNumber); err != nil {
			return nil, false, err
		}
		existing.Messages = messages
		existing.QuestionNumber = questionNumber
		return existing, false, nil
	case !errors.Is(err, errors.ErrNotFound):
		return nil, false, err
	}

	if err := s.guard.Authorize(ctx, userID, models.CapabilityInterview); err != nil {
		return nil, false, err
	}

	interview := &models.Interview{
		ID:             id,
		UserID:         userID,
		QuestionNumber: questionNumber,
		Messages:       messages,
	}
	if err := s.repo.Create(ctx, interview); err != nil {
		return nil, false, err
	}

	s.increments.Schedule(userID, models.CapabilityInterview)
	return interview, true, nil
}

func (s *interviewService) SetFeedback(ctx context.Context, userID, id, feedback string) (*models.Interview, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, errors.Invalid("Missing feedback")
	}
	interview, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetFeedback(ctx, id, feedback); err != nil {
		return nil, err
	}
	interview.Feedback = &feedback
	interview.Completed = true
	return interview, nil
}

func (s *interviewService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *interviewService) DeleteAllForUser(ctx context.Context, callerID, userID string) error {
	if callerID == "" || callerID != userID {
		return errNotOwner
	}
	_, err := s.repo.DeleteByUser(ctx, userID)
	return err
}
