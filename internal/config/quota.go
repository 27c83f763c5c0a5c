package config

import (
	"fmt"
	"interview-api/internal/models"
	"time"
)

const (
	DefaultAskAICeiling     = 5
	DefaultInterviewCeiling = 1
)

// QuotaConfig holds the per-capability daily ceilings for non-premium users.
type QuotaConfig struct {
	AskAICeiling     int  `mapstructure:"ask_ai_ceiling"`
	InterviewCeiling int  `mapstructure:"interview_ceiling"`
	PremiumBypass    bool `mapstructure:"premium_bypass"`
	// IANA zone whose calendar days bound the counters. Empty means server local time.
	Timezone string `mapstructure:"timezone"`
	// Bound on each background increment, detached from the request that earned it.
	IncrementTimeout time.Duration `mapstructure:"increment_timeout"`
}

func NewQuotaConfig() *QuotaConfig {
	return &QuotaConfig{
		AskAICeiling:     DefaultAskAICeiling,
		InterviewCeiling: DefaultInterviewCeiling,
		PremiumBypass:    true,
		IncrementTimeout: 10 * time.Second,
	}
}

func (q QuotaConfig) Ceilings() map[models.Capability]int {
	return map[models.Capability]int{
		models.CapabilityAskAI:     q.AskAICeiling,
		models.CapabilityInterview: q.InterviewCeiling,
	}
}

func (q QuotaConfig) Location() (*time.Location, error) {
	if q.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid quota.timezone %q: %w", q.Timezone, err)
	}
	return loc, nil
}

func (q QuotaConfig) Validate() error {
	if q.AskAICeiling < 0 || q.InterviewCeiling < 0 {
		return fmt.Errorf("quota ceilings must not be negative")
	}
	_, err := q.Location()
	return err
}
