package plans

import (
	"slices"
	"time"
)

// Snapshot is the local copy of a tenant's subscription state. All date
// fields are already normalized to UTC; a nil pointer means "not set".
type Snapshot struct {
	Tier         Tier         `json:"tier"`
	Status       Status       `json:"status"`
	Price        float64      `json:"price"`
	Currency     string       `json:"currency"`
	BillingCycle BillingCycle `json:"billingCycle"`

	RenewalDate               *time.Time `json:"renewalDate"`
	CancellationDate          *time.Time `json:"cancellationDate"`
	CancellationEffectiveDate *time.Time `json:"cancellationEffectiveDate"`

	PendingPlanTier          *Tier      `json:"pendingPlanTier"`
	PendingPlanEffectiveDate *time.Time `json:"pendingPlanEffectiveDate"`

	PaymentMethodMask string   `json:"paymentMethodMask"`
	Features          []string `json:"features"`
}

// Clone returns a deep copy. Snapshots are shared between readers and seed
// catalogues, so nothing outside this package should hand out the original.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.RenewalDate = cloneTime(s.RenewalDate)
	out.CancellationDate = cloneTime(s.CancellationDate)
	out.CancellationEffectiveDate = cloneTime(s.CancellationEffectiveDate)
	out.PendingPlanEffectiveDate = cloneTime(s.PendingPlanEffectiveDate)
	if s.PendingPlanTier != nil {
		t := *s.PendingPlanTier
		out.PendingPlanTier = &t
	}
	if s.Features != nil {
		out.Features = slices.Clone(s.Features)
	}
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
