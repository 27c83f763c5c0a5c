package services

import (
	"context"
	"interview-api/internal/config"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/quota"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestUsageService(repo *fakeUsageRepo) *usageService {
	cfg := config.NewQuotaConfig()
	svc := NewUsageService(repo, quota.NewResetPolicy(time.UTC), quota.NewGate(cfg.Ceilings(), cfg.PremiumBypass)).(*usageService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestUsageService_GetUsage_CreatesMissingRecord(t *testing.T) {
	repo := newFakeUsageRepo()
	svc := newTestUsageService(repo)

	usage, created, err := svc.GetUsage(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 0, usage.AskAIUsage)
	assert.Equal(t, 0, usage.InterviewUsage)
	assert.Equal(t, testNow, usage.AskAILast)
	assert.NotNil(t, repo.get("u1"))
}

func TestUsageService_GetUsage_ResetsStaleCounters(t *testing.T) {
	yesterday := testNow.Add(-24 * time.Hour)
	repo := newFakeUsageRepo(&models.UsageRecord{
		UserID:         "u1",
		AskAIUsage:     5,
		AskAILast:      yesterday,
		InterviewUsage: 1,
		InterviewLast:  testNow.Add(-time.Hour),
	})
	svc := newTestUsageService(repo)

	usage, created, err := svc.GetUsage(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 0, usage.AskAIUsage)
	assert.Equal(t, testNow, usage.AskAILast)
	assert.Equal(t, 1, usage.InterviewUsage)

	// The reset is persisted, not just applied to the response
	assert.Equal(t, 1, repo.resets)
	assert.Equal(t, 0, repo.get("u1").AskAIUsage)
}

func TestUsageService_GetUsage_DoesNotUndoConcurrentIncrement(t *testing.T) {
	repo := newFakeUsageRepo(&models.UsageRecord{
		UserID:        "u1",
		AskAIUsage:    5,
		AskAILast:     testNow.Add(-24 * time.Hour),
		InterviewLast: testNow,
	})
	// An increment lands between the read and the reset.
	repo.beforeReset = func(rec *models.UsageRecord) {
		rec.Reset(models.CapabilityAskAI, testNow)
		rec.Increment(models.CapabilityAskAI, testNow)
	}
	svc := newTestUsageService(repo)

	usage, _, err := svc.GetUsage(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, usage.AskAIUsage)
	assert.Equal(t, 1, repo.get("u1").AskAIUsage)
	assert.Equal(t, 0, repo.resets)
}

func TestUsageService_GetUsage_SameDayLeavesRecordAlone(t *testing.T) {
	repo := newFakeUsageRepo(&models.UsageRecord{
		UserID:        "u1",
		AskAIUsage:    3,
		AskAILast:     testNow.Add(-time.Hour),
		InterviewLast: testNow.Add(-2 * time.Hour),
	})
	svc := newTestUsageService(repo)

	usage, _, err := svc.GetUsage(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, usage.AskAIUsage)
	assert.Equal(t, 0, repo.resets)
}

func TestUsageService_GetUsage_StorageFailure(t *testing.T) {
	repo := newFakeUsageRepo()
	repo.err = errors.Wrap(errors.ErrDatabaseError, "failed to get usage")
	svc := newTestUsageService(repo)

	_, _, err := svc.GetUsage(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, 500, errors.HTTPStatus(err))
}

func TestUsageService_RequiresIdentity(t *testing.T) {
	svc := newTestUsageService(newFakeUsageRepo())
	ctx := context.Background()

	_, _, err := svc.GetUsage(ctx, "")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	_, err = svc.CreateUsage(ctx, "")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	_, err = svc.IncrementUsage(ctx, "", models.CapabilityAskAI)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestUsageService_CreateUsage(t *testing.T) {
	repo := newFakeUsageRepo()
	svc := newTestUsageService(repo)

	usage, err := svc.CreateUsage(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", usage.UserID)

	_, err = svc.CreateUsage(context.Background(), "u1")
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)
}

func TestUsageService_IncrementUsage_ResetsBeforeCounting(t *testing.T) {
	repo := newFakeUsageRepo(&models.UsageRecord{
		UserID:        "u1",
		AskAIUsage:    5,
		AskAILast:     testNow.Add(-24 * time.Hour),
		InterviewLast: testNow,
	})
	svc := newTestUsageService(repo)

	usage, err := svc.IncrementUsage(context.Background(), "u1", models.CapabilityAskAI)
	require.NoError(t, err)
	assert.Equal(t, 1, usage.AskAIUsage)
	assert.Equal(t, testNow, usage.AskAILast)
}

func TestUsageService_IncrementUsage_SameDayAccumulates(t *testing.T) {
	dayStart := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	repo := newFakeUsageRepo(&models.UsageRecord{
		UserID:         "u1",
		AskAIUsage:     2,
		AskAILast:      dayStart,
		InterviewUsage: 3,
		InterviewLast:  dayStart,
	})
	svc := newTestUsageService(repo)

	const steps = 4
	for i := 1; i <= steps; i++ {
		stamp := dayStart.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return stamp }

		usage, err := svc.IncrementUsage(context.Background(), "u1", models.CapabilityAskAI)
		require.NoError(t, err)
		assert.Equal(t, 2+i, usage.AskAIUsage)
		assert.Equal(t, stamp, usage.AskAILast)
	}

	stored := repo.get("u1")
	assert.Equal(t, 2+steps, stored.AskAIUsage)
	assert.Equal(t, dayStart.Add(steps*time.Hour), stored.AskAILast)
	assert.Equal(t, 3, stored.InterviewUsage)
	assert.Equal(t, dayStart, stored.InterviewLast)
	assert.Equal(t, steps, repo.increments)
}

func TestUsageService_IncrementUsage_UnknownCapability(t *testing.T) {
	repo := newFakeUsageRepo(models.NewUsageRecord("u1", testNow))
	svc := newTestUsageService(repo)

	_, err := svc.IncrementUsage(context.Background(), "u1", models.Capability("emailUsage"))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.Equal(t, 0, repo.increments)
}

func TestUsageService_CheckQuota(t *testing.T) {
	svc := newTestUsageService(newFakeUsageRepo())

	usage := models.NewUsageRecord("u1", testNow)
	usage.AskAIUsage = config.DefaultAskAICeiling
	assert.Equal(t, quota.Denied, svc.CheckQuota(models.CapabilityAskAI, usage, models.Entitlement{}))
	assert.Equal(t, quota.Permit, svc.CheckQuota(models.CapabilityAskAI, usage, models.Entitlement{Premium: true}))
	assert.Equal(t, quota.Permit, svc.CheckQuota(models.CapabilityInterview, usage, models.Entitlement{}))
}
