package repository

import (
	"context"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	SetPremium(ctx context.Context, id string, premium bool) error
	Delete(ctx context.Context, id string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyExists
		}
		return errors.Wrap(result.Error, "failed to create account")
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).First(&account, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get account by ID")
	}

	return &account, nil
}

func (r *accountRepository) SetPremium(ctx context.Context, id string, premium bool) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("premium", premium)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// Delete removes the account together with its usage record and interviews.
func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.UsageRecord{}, "user_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to delete usage")
		}
		if err := tx.Delete(&models.Interview{}, "user_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to delete interviews")
		}

		result := tx.Delete(&models.Account{}, "id = ?", id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to delete account")
		}
		if result.RowsAffected == 0 {
			return errors.ErrNotFound
		}
		return nil
	})
}
