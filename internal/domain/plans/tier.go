package plans

import "strings"

// Tier is a named subscription level.
type Tier string

// Tier constants (single source of truth)
const (
	TierBasic        Tier = "BASIC"
	TierProfessional Tier = "PROFESSIONAL"
	TierEnterprise   Tier = "ENTERPRISE"
	TierCustom       Tier = "CUSTOM"
)

// ParseTier accepts any casing and surrounding whitespace.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t Tier) Valid() bool {
	switch t {
	case TierBasic, TierProfessional, TierEnterprise, TierCustom:
		return true
	}
	return false
}

// Status is the subscription state as tracked by the dashboard.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusPastDue   Status = "PAST_DUE"
	StatusCancelled Status = "CANCELLED"
	StatusPending   Status = "PENDING"
)

// BillingCycle is how often the tenant is charged.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "MONTHLY"
	CycleAnnual  BillingCycle = "ANNUAL"
)

// ParseBillingCycle understands the processor spellings (month/year) as well
// as the canonical names. Unknown values default to MONTHLY.
func ParseBillingCycle(s string) BillingCycle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annual", "annually", "year", "yearly":
		return CycleAnnual
	default:
		return CycleMonthly
	}
}

func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleAnnual
}
