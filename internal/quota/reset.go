// Package quota holds the pure daily-allowance logic: deciding which counters
// are due for a calendar-day reset and whether a capability may be used.
package quota

import (
	"interview-api/internal/models"
	"time"
)

// ResetPolicy resets counters on calendar-day boundaries of Location. It never
// looks at elapsed time, so 23:59 then 00:01 resets and 00:01 then 23:59 does not.
type ResetPolicy struct {
	Location *time.Location
}

func NewResetPolicy(loc *time.Location) ResetPolicy {
	if loc == nil {
		loc = time.Local
	}
	return ResetPolicy{Location: loc}
}

// ResetPlan lists the counters to zero and the instant to stamp on each of them.
type ResetPlan struct {
	Capabilities []models.Capability
	At           time.Time
}

func (p ResetPlan) Empty() bool {
	return len(p.Capabilities) == 0
}

func (p ResetPlan) Includes(c models.Capability) bool {
	for _, due := range p.Capabilities {
		if due == c {
			return true
		}
	}
	return false
}

// Apply zeroes the planned counters on u.
func (p ResetPlan) Apply(u *models.UsageRecord) {
	for _, c := range p.Capabilities {
		u.Reset(c, p.At)
	}
}

// Columns is the single update that persists the plan.
func (p ResetPlan) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 2*len(p.Capabilities))
	for _, c := range p.Capabilities {
		cols[c.UsageColumn()] = 0
		cols[c.LastColumn()] = p.At
	}
	return cols
}

// Evaluate compares the calendar date of each counter's last stamp with now's.
func (r ResetPolicy) Evaluate(u *models.UsageRecord, now time.Time) ResetPlan {
	plan := ResetPlan{At: now}
	for _, c := range models.Capabilities {
		if !r.SameDay(u.Last(c), now) {
			plan.Capabilities = append(plan.Capabilities, c)
		}
	}
	return plan
}

func (r ResetPolicy) SameDay(a, b time.Time) bool {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
