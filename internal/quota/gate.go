package quota

import (
	"interview-api/internal/models"
)

type Decision int

const (
	Permit Decision = iota
	Denied
)

func (d Decision) String() string {
	if d == Permit {
		return "permit"
	}
	return "denied"
}

// Gate decides whether a user may spend one more use of a capability today.
// A ceiling of N allows N uses per day; the request that would be use N+1 is denied.
type Gate struct {
	Ceilings      map[models.Capability]int
	PremiumBypass bool
}

func NewGate(ceilings map[models.Capability]int, premiumBypass bool) *Gate {
	return &Gate{Ceilings: ceilings, PremiumBypass: premiumBypass}
}

// Check must be given the usage record after any due reset has been applied.
func (g *Gate) Check(c models.Capability, usage *models.UsageRecord, ent models.Entitlement) Decision {
	if ent.Premium && g.PremiumBypass {
		return Permit
	}
	ceiling, ok := g.Ceilings[c]
	if !ok {
		return Denied
	}
	if usage.Count(c) >= ceiling {
		return Denied
	}
	return Permit
}
