package services

import (
	"context"
	"interview-api/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementScheduler_DrainWaitsForScheduled(t *testing.T) {
	repo := newFakeUsageRepo(models.NewUsageRecord("u1", testNow))
	scheduler := NewIncrementScheduler(newTestUsageService(repo), time.Second)

	for i := 0; i < 3; i++ {
		scheduler.Schedule("u1", models.CapabilityAskAI)
	}

	require.NoError(t, scheduler.Drain(context.Background()))
	assert.Equal(t, 3, repo.get("u1").AskAIUsage)
}

func TestIncrementScheduler_RunsInlineAfterDrain(t *testing.T) {
	repo := newFakeUsageRepo(models.NewUsageRecord("u1", testNow))
	scheduler := NewIncrementScheduler(newTestUsageService(repo), time.Second)
	require.NoError(t, scheduler.Drain(context.Background()))

	scheduler.Schedule("u1", models.CapabilityInterview)
	assert.Equal(t, 1, repo.get("u1").InterviewUsage)
}

func TestIncrementScheduler_FailureIsSwallowed(t *testing.T) {
	repo := newFakeUsageRepo()
	repo.err = assert.AnError
	scheduler := NewIncrementScheduler(newTestUsageService(repo), time.Second)

	scheduler.Schedule("u1", models.CapabilityAskAI)
	assert.NoError(t, scheduler.Drain(context.Background()))
}
