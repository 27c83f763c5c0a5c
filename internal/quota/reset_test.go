package quota

import (
	"interview-api/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestEvaluate_SameDayIsNoop(t *testing.T) {
	policy := NewResetPolicy(time.UTC)
	morning := time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC)
	night := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)

	u := &models.UsageRecord{UserID: "u1", AskAIUsage: 4, AskAILast: morning, InterviewUsage: 1, InterviewLast: morning}
	plan := policy.Evaluate(u, night)

	assert.True(t, plan.Empty())
	assert.Empty(t, plan.Columns())
}

func TestEvaluate_MidnightCrossingResets(t *testing.T) {
	policy := NewResetPolicy(time.UTC)
	before := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	after := time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC)

	u := &models.UsageRecord{UserID: "u1", AskAIUsage: 5, AskAILast: before, InterviewUsage: 1, InterviewLast: before}
	plan := policy.Evaluate(u, after)

	require.False(t, plan.Empty())
	assert.ElementsMatch(t, []models.Capability{models.CapabilityAskAI, models.CapabilityInterview}, plan.Capabilities)
	assert.Equal(t, after, plan.At)

	plan.Apply(u)
	assert.Equal(t, 0, u.AskAIUsage)
	assert.Equal(t, 0, u.InterviewUsage)
	assert.Equal(t, after, u.AskAILast)
	assert.Equal(t, after, u.InterviewLast)
}

func TestEvaluate_CountersResetIndependently(t *testing.T) {
	policy := NewResetPolicy(time.UTC)
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	u := &models.UsageRecord{UserID: "u1", AskAIUsage: 3, AskAILast: now.Add(-time.Hour), InterviewUsage: 1, InterviewLast: yesterday}
	plan := policy.Evaluate(u, now)

	assert.Equal(t, []models.Capability{models.CapabilityInterview}, plan.Capabilities)
	assert.True(t, plan.Includes(models.CapabilityInterview))
	assert.False(t, plan.Includes(models.CapabilityAskAI))
	assert.Equal(t, map[string]interface{}{
		"interview_usage": 0,
		"interview_last":  now,
	}, plan.Columns())

	plan.Apply(u)
	assert.Equal(t, 3, u.AskAIUsage)
	assert.Equal(t, 0, u.InterviewUsage)
}

func TestEvaluate_SecondPassIsNoop(t *testing.T) {
	policy := NewResetPolicy(time.UTC)
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	u := &models.UsageRecord{UserID: "u1", AskAIUsage: 2, AskAILast: now.AddDate(0, 0, -3), InterviewLast: now.AddDate(0, 0, -1)}

	first := policy.Evaluate(u, now)
	require.False(t, first.Empty())
	first.Apply(u)

	second := policy.Evaluate(u, now)
	assert.True(t, second.Empty())
}

func TestEvaluate_UsesConfiguredCalendar(t *testing.T) {
	ny := mustLocation(t, "America/New_York")
	policy := NewResetPolicy(ny)

	// 03:00 UTC and 22:00 UTC on the same UTC date fall on different New York dates.
	last := time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 11, 22, 0, 0, 0, time.UTC)
	u := &models.UsageRecord{UserID: "u1", AskAIUsage: 5, AskAILast: last, InterviewLast: now}

	plan := policy.Evaluate(u, now)
	assert.Equal(t, []models.Capability{models.CapabilityAskAI}, plan.Capabilities)

	assert.True(t, NewResetPolicy(time.UTC).Evaluate(u, now).Empty())
}

func TestNewResetPolicy_NilLocationDefaultsToLocal(t *testing.T) {
	assert.Equal(t, time.Local, NewResetPolicy(nil).Location)
}
