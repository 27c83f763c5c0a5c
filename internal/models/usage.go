package models

import (
	"time"
)

// Capability names one of the independently metered AI features. The string
// values are the field names clients send in PATCH /usage/increment.
type Capability string

const (
	CapabilityAskAI     Capability = "askAIUsage"
	CapabilityInterview Capability = "interviewUsage"
)

var Capabilities = []Capability{CapabilityAskAI, CapabilityInterview}

func ParseCapability(s string) (Capability, bool) {
	switch Capability(s) {
	case CapabilityAskAI:
		return CapabilityAskAI, true
	case CapabilityInterview:
		return CapabilityInterview, true
	default:
		return "", false
	}
}

// Short label used for metrics and log fields.
func (c Capability) Label() string {
	switch c {
	case CapabilityAskAI:
		return "ask_ai"
	case CapabilityInterview:
		return "interview"
	default:
		return "unknown"
	}
}

// UsageColumn is the column holding the counter for c.
func (c Capability) UsageColumn() string {
	switch c {
	case CapabilityAskAI:
		return "ask_ai_usage"
	case CapabilityInterview:
		return "interview_usage"
	default:
		return ""
	}
}

// LastColumn is the column holding the reset-or-increment timestamp for c.
func (c Capability) LastColumn() string {
	switch c {
	case CapabilityAskAI:
		return "ask_ai_last"
	case CapabilityInterview:
		return "interview_last"
	default:
		return ""
	}
}

// UsageRecord holds one user's daily counters. There is at most one per user.
type UsageRecord struct {
	UserID         string    `gorm:"type:varchar(255);primaryKey" json:"userId"`
	AskAIUsage     int       `gorm:"not null;check:ask_ai_usage >= 0" json:"askAIUsage"`
	AskAILast      time.Time `gorm:"not null" json:"askAILast"`
	InterviewUsage int       `gorm:"not null;check:interview_usage >= 0" json:"interviewUsage"`
	InterviewLast  time.Time `gorm:"not null" json:"interviewLast"`
}

func (UsageRecord) TableName() string {
	return "usage"
}

// NewUsageRecord returns a zeroed record stamped at now.
func NewUsageRecord(userID string, now time.Time) *UsageRecord {
	return &UsageRecord{
		UserID:        userID,
		AskAILast:     now,
		InterviewLast: now,
	}
}

func (u *UsageRecord) Count(c Capability) int {
	switch c {
	case CapabilityAskAI:
		return u.AskAIUsage
	case CapabilityInterview:
		return u.InterviewUsage
	default:
		return 0
	}
}

func (u *UsageRecord) Last(c Capability) time.Time {
	switch c {
	case CapabilityAskAI:
		return u.AskAILast
	case CapabilityInterview:
		return u.InterviewLast
	default:
		return time.Time{}
	}
}

func (u *UsageRecord) set(c Capability, count int, last time.Time) {
	switch c {
	case CapabilityAskAI:
		u.AskAIUsage = count
		u.AskAILast = last
	case CapabilityInterview:
		u.InterviewUsage = count
		u.InterviewLast = last
	}
}

// Reset zeroes the counter for c and stamps it.
func (u *UsageRecord) Reset(c Capability, at time.Time) {
	u.set(c, 0, at)
}

// Increment adds one use of c and stamps it.
func (u *UsageRecord) Increment(c Capability, at time.Time) {
	u.set(c, u.Count(c)+1, at)
}
