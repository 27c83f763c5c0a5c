package services

import (
	"context"
	"interview-api/internal/logger"
	"interview-api/internal/metrics"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/quota"
	"interview-api/internal/repository"
	"time"

	"github.com/sirupsen/logrus"
)

type UsageService interface {
	// GetUsage returns the post-reset record, creating it when absent.
	GetUsage(ctx context.Context, userID string) (usage *models.UsageRecord, created bool, err error)
	CreateUsage(ctx context.Context, userID string) (*models.UsageRecord, error)
	IncrementUsage(ctx context.Context, userID string, capability models.Capability) (*models.UsageRecord, error)
	// CheckQuota evaluates the gate against an already reset record.
	CheckQuota(capability models.Capability, usage *models.UsageRecord, ent models.Entitlement) quota.Decision
}

type usageService struct {
	repo   repository.UsageRepository
	policy quota.ResetPolicy
	gate   *quota.Gate
	now    func() time.Time
}

func NewUsageService(repo repository.UsageRepository, policy quota.ResetPolicy, gate *quota.Gate) UsageService {
	return &usageService{
		repo:   repo,
		policy: policy,
		gate:   gate,
		now:    time.Now,
	}
}

func (s *usageService) GetUsage(ctx context.Context, userID string) (*models.UsageRecord, bool, error) {
	if userID == "" {
		return nil, false, errors.ErrUnauthorized
	}

	now := s.now()
	usage, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrNotFound):
		usage = models.NewUsageRecord(userID, now)
		err = s.repo.Create(ctx, usage)
		if err == nil {
			return usage, true, nil
		}
		if !errors.Is(err, errors.ErrAlreadyExists) {
			return nil, false, err
		}
		// Lost a creation race; read the winner's record.
		if usage, err = s.repo.GetByUserID(ctx, userID); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, err
	}

	if err := s.applyResets(ctx, usage, now); err != nil {
		return nil, false, err
	}
	return usage, false, nil
}

func (s *usageService) CreateUsage(ctx context.Context, userID string) (*models.UsageRecord, error) {
	if userID == "" {
		return nil, errors.ErrUnauthorized
	}

	_, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, errors.ErrAlreadyExists
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	usage := models.NewUsageRecord(userID, s.now())
	if err := s.repo.Create(ctx, usage); err != nil {
		return nil, err
	}
	return usage, nil
}

func (s *usageService) IncrementUsage(ctx context.Context, userID string, capability models.Capability) (*models.UsageRecord, error) {
	if userID == "" {
		return nil, errors.ErrUnauthorized
	}
	if _, ok := models.ParseCapability(string(capability)); !ok {
		return nil, errors.Invalid("unknown usage type")
	}

	usage, err := s.repo.Increment(ctx, userID, capability, s.now(), s.policy)
	if err != nil {
		metrics.UsageIncrements.WithLabelValues(capability.Label(), "error").Inc()
		return nil, err
	}
	metrics.UsageIncrements.WithLabelValues(capability.Label(), "success").Inc()
	return usage, nil
}

func (s *usageService) CheckQuota(capability models.Capability, usage *models.UsageRecord, ent models.Entitlement) quota.Decision {
	decision := s.gate.Check(capability, usage, ent)
	metrics.QuotaDecisions.WithLabelValues(capability.Label(), decision.String()).Inc()
	return decision
}

// applyResets persists any due reset before the record is returned, so no
// caller can gate on a stale counter.
func (s *usageService) applyResets(ctx context.Context, usage *models.UsageRecord, now time.Time) error {
	plan := s.policy.Evaluate(usage, now)
	if plan.Empty() {
		return nil
	}

	fresh, plan, err := s.repo.ApplyReset(ctx, usage.UserID, now, s.policy)
	if err != nil {
		return err
	}
	*usage = *fresh
	if plan.Empty() {
		return nil
	}

	for _, c := range plan.Capabilities {
		metrics.UsageResets.WithLabelValues(c.Label()).Inc()
	}
	logger.LogEvent(logrus.DebugLevel, "Daily usage reset applied", logrus.Fields{
		"user_id":      usage.UserID,
		"capabilities": plan.Capabilities,
	})
	return nil
}
