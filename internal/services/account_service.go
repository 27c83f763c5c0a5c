package services

import (
	"context"
	"interview-api/internal/logger"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/repository"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type AccountService interface {
	Create(ctx context.Context, userID, email string) (*models.Account, error)
	Get(ctx context.Context, userID string) (*models.Account, error)
	// SetPremium changes the entitlement and drops its cached copy.
	SetPremium(ctx context.Context, userID string, premium bool) (*models.Account, error)
	Delete(ctx context.Context, userID string) error
	GetEntitlement(ctx context.Context, userID string) (models.Entitlement, error)
}

type accountService struct {
	repo  repository.AccountRepository
	cache CacheService
	ttl   time.Duration
}

// NewAccountService takes an optional cache; nil serves every lookup from the store.
func NewAccountService(repo repository.AccountRepository, cache CacheService, ttl time.Duration) AccountService {
	return &accountService{repo: repo, cache: cache, ttl: ttl}
}

func entitlementKey(userID string) string {
	return "entitlement:" + userID
}

func (s *accountService) Create(ctx context.Context, userID, email string) (*models.Account, error) {
	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)
	if userID == "" || email == "" {
		return nil, errors.Invalid("missing userId or email")
	}

	if _, err := s.repo.GetByID(ctx, userID); err == nil {
		return nil, errors.ErrAlreadyExists
	} else if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	account := &models.Account{ID: userID, Email: email}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) Get(ctx context.Context, userID string) (*models.Account, error) {
	if userID == "" {
		return nil, errors.Invalid("missing userId")
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *accountService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.Invalid("missing userId")
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *accountService) SetPremium(ctx context.Context, userID string, premium bool) (*models.Account, error) {
	if userID == "" {
		return nil, errors.Invalid("missing userId")
	}
	if err := s.repo.SetPremium(ctx, userID, premium); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	logger.LogEvent(logrus.InfoLevel, "Account entitlement changed", logrus.Fields{
		"user_id": userID,
		"premium": premium,
	})
	return s.repo.GetByID(ctx, userID)
}

func (s *accountService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, entitlementKey(userID)); err != nil {
		logger.LogEvent(logrus.WarnLevel, "Failed to invalidate entitlement cache", logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

// GetEntitlement reads through the cache. Cache failures fall back to the store.
func (s *accountService) GetEntitlement(ctx context.Context, userID string) (models.Entitlement, error) {
	var ent models.Entitlement
	if getCached(ctx, s.cache, entitlementKey(userID), &ent) {
		return ent, nil
	}

	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return models.Entitlement{}, err
	}
	ent = account.Entitlement()

	if s.cache != nil {
		if err := s.cache.Set(ctx, entitlementKey(userID), ent, s.ttl); err != nil {
			logger.LogEvent(logrus.WarnLevel, "Failed to cache entitlement", logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}
	return ent, nil
}
