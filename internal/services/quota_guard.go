package services

import (
	"context"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/quota"

	"golang.org/x/sync/errgroup"
)

// QuotaGuard is the check every provider-backed feature runs before doing work.
type QuotaGuard interface {
	Authorize(ctx context.Context, userID string, capability models.Capability) error
}

type quotaGuard struct {
	accounts AccountService
	usage    UsageService
}

func NewQuotaGuard(accounts AccountService, usage UsageService) QuotaGuard {
	return &quotaGuard{accounts: accounts, usage: usage}
}

// Authorize loads the entitlement and the post-reset usage concurrently, then
// gates on them. It returns ErrNotFound without an account and ErrQuotaExceeded
// when the gate denies.
func (g *quotaGuard) Authorize(ctx context.Context, userID string, capability models.Capability) error {
	if userID == "" {
		return errors.ErrUnauthorized
	}

	var (
		ent   models.Entitlement
		usage *models.UsageRecord
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		ent, err = g.accounts.GetEntitlement(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		usage, _, err = g.usage.GetUsage(egCtx, userID)
		return err
	})
	if err := eg.Wait(); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &errors.Error{Err: errors.ErrNotFound, Message: "User not found", Code: "NOT_FOUND"}
		}
		return err
	}

	if g.usage.CheckQuota(capability, usage, ent) == quota.Denied {
		return errors.ErrQuotaExceeded
	}
	return nil
}
