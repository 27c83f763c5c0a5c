package repository

import (
	"context"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/quota"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UsageRecord, error)
	Create(ctx context.Context, usage *models.UsageRecord) error
	ApplyReset(ctx context.Context, userID string, now time.Time, policy quota.ResetPolicy) (*models.UsageRecord, quota.ResetPlan, error)
	Increment(ctx context.Context, userID string, capability models.Capability, now time.Time, policy quota.ResetPolicy) (*models.UsageRecord, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) GetByUserID(ctx context.Context, userID string) (*models.UsageRecord, error) {
	var usage models.UsageRecord
	result := r.db.WithContext(ctx).First(&usage, "user_id = ?", userID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get usage")
	}

	return &usage, nil
}

func (r *usageRepository) Create(ctx context.Context, usage *models.UsageRecord) error {
	result := r.db.WithContext(ctx).Create(usage)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyExists
		}
		return errors.Wrap(result.Error, "failed to create usage")
	}
	return nil
}

// ApplyReset re-evaluates policy against the locked row and persists whatever
// is still due. A counter already reset today by a concurrent increment is left
// alone. The returned plan is the one actually written.
func (r *usageRepository) ApplyReset(ctx context.Context, userID string, now time.Time, policy quota.ResetPolicy) (*models.UsageRecord, quota.ResetPlan, error) {
	var (
		usage models.UsageRecord
		plan  quota.ResetPlan
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUsage(tx, userID, &usage); err != nil {
			return err
		}

		plan = policy.Evaluate(&usage, now)
		if plan.Empty() {
			return nil
		}
		plan.Apply(&usage)

		return tx.Model(&models.UsageRecord{}).
			Where("user_id = ?", userID).
			Updates(plan.Columns()).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quota.ResetPlan{}, errors.ErrNotFound
		}
		return nil, quota.ResetPlan{}, errors.Wrap(err, "failed to reset usage")
	}

	return &usage, plan, nil
}

// Increment resets any stale counters and adds one use of capability under a
// row lock. A user without a record gets one created with the use already counted.
func (r *usageRepository) Increment(ctx context.Context, userID string, capability models.Capability, now time.Time, policy quota.ResetPolicy) (*models.UsageRecord, error) {
	if _, ok := models.ParseCapability(string(capability)); !ok {
		return nil, errors.Invalid("unknown usage type")
	}

	var usage models.UsageRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := lockUsage(tx, userID, &usage)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fresh := models.NewUsageRecord(userID, now)
			fresh.Increment(capability, now)

			created := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(fresh)
			if created.Error != nil {
				return created.Error
			}
			if created.RowsAffected == 1 {
				usage = *fresh
				return nil
			}
			// A concurrent first request inserted the row; count on top of it.
			err = lockUsage(tx, userID, &usage)
		}
		if err != nil {
			return err
		}

		plan := policy.Evaluate(&usage, now)
		plan.Apply(&usage)
		usage.Increment(capability, now)

		updates := plan.Columns()
		updates[capability.UsageColumn()] = usage.Count(capability)
		updates[capability.LastColumn()] = now

		return tx.Model(&models.UsageRecord{}).
			Where("user_id = ?", userID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to increment usage")
	}

	return &usage, nil
}

func lockUsage(tx *gorm.DB, userID string, dest *models.UsageRecord) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(dest, "user_id = ?", userID).Error
}
