package repository

import (
	"context"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type InterviewRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	Create(ctx context.Context, interview *models.Interview) error
	UpdateTranscript(ctx context.Context, id string, messages models.Messages, questionNumber int) error
	SetFeedback(ctx context.Context, id, feedback string) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	var interviews []models.Interview

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list interviews")
	}
	return interviews, nil
}

func (r *interviewRepository) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var interview models.Interview
	result := r.db.WithContext(ctx).First(&interview, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get interview")
	}
	return &interview, nil
}

func (r *interviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	result := r.db.WithContext(ctx).Create(interview)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyExists
		}
		return errors.Wrap(result.Error, "failed to create interview")
	}
	return nil
}

func (r *interviewRepository) UpdateTranscript(ctx context.Context, id string, messages models.Messages, questionNumber int) error {
	return r.update(ctx, id, map[string]interface{}{
		"messages":        messages,
		"question_number": questionNumber,
	})
}

// SetFeedback stores the feedback and marks the interview completed.
func (r *interviewRepository) SetFeedback(ctx context.Context, id, feedback string) error {
	return r.update(ctx, id, map[string]interface{}{
		"feedback":  feedback,
		"completed": true,
	})
}

func (r *interviewRepository) update(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update interview")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *interviewRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Interview{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete interview")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *interviewRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Interview{}, "user_id = ?", userID)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete interviews")
	}
	return result.RowsAffected, nil
}
