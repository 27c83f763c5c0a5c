package repository

import (
	"context"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	List(ctx context.Context) ([]models.Question, error)
	GetRandom(ctx context.Context) (*models.Question, error)
	GetByNumber(ctx context.Context, number int) (*models.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, id uuid.UUID, patch models.QuestionPatch) (*models.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question

	err := r.db.WithContext(ctx).Order("question_number ASC").Find(&questions).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list questions")
	}
	return questions, nil
}

func (r *questionRepository) GetRandom(ctx context.Context) (*models.Question, error) {
	return r.first(r.db.WithContext(ctx).Order("RANDOM()"))
}

func (r *questionRepository) GetByNumber(ctx context.Context, number int) (*models.Question, error) {
	return r.first(r.db.WithContext(ctx).Where("question_number = ?", number))
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *questionRepository) first(q *gorm.DB) (*models.Question, error) {
	var question models.Question
	if err := q.Take(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get question")
	}
	return &question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	result := r.db.WithContext(ctx).Create(question)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyExists
		}
		return errors.Wrap(result.Error, "failed to create question")
	}
	return nil
}

func (r *questionRepository) Update(ctx context.Context, id uuid.UUID, patch models.QuestionPatch) (*models.Question, error) {
	updates := patch.Updates()
	if len(updates) == 0 {
		return nil, errors.Invalid("no attributes to update")
	}

	result := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrAlreadyExists
		}
		return nil, errors.Wrap(result.Error, "failed to update question")
	}
	if result.RowsAffected == 0 {
		return nil, errors.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Question{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete question")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
