package plans

import (
	"strings"

	"clinic-billing/internal/infra/stripe"
)

// RawSnapshot is the plan payload as the billing service sends it. Date
// fields are left undecoded (ISO strings or numeric tuples).
type RawSnapshot struct {
	Tier                      string   `json:"tier"`
	Status                    string   `json:"status"`
	Price                     float64  `json:"price"`
	Currency                  string   `json:"currency"`
	BillingCycle              string   `json:"billingCycle"`
	RenewalDate               any      `json:"renewalDate"`
	CancellationDate          any      `json:"cancellationDate"`
	CancellationEffectiveDate any      `json:"cancellationEffectiveDate"`
	PendingPlanTier           *string  `json:"pendingPlanTier"`
	PendingPlanEffectiveDate  any      `json:"pendingPlanEffectiveDate"`
	PaymentMethodMask         string   `json:"paymentMethodMask"`
	Features                  []string `json:"features"`
}

// FromWire normalizes a raw payload into a Snapshot. Nothing from the raw
// payload is aliased by the result.
func FromWire(raw RawSnapshot) *Snapshot {
	tier, _ := ParseTier(raw.Tier)
	s := &Snapshot{
		Tier:                      tier,
		Status:                    Status(stripe.NormalizeStatus(raw.Status)),
		Price:                     raw.Price,
		Currency:                  strings.ToUpper(strings.TrimSpace(raw.Currency)),
		BillingCycle:              ParseBillingCycle(raw.BillingCycle),
		RenewalDate:               NormalizeDate(raw.RenewalDate),
		CancellationDate:          NormalizeDate(raw.CancellationDate),
		CancellationEffectiveDate: NormalizeDate(raw.CancellationEffectiveDate),
		PendingPlanEffectiveDate:  NormalizeDate(raw.PendingPlanEffectiveDate),
		PaymentMethodMask:         raw.PaymentMethodMask,
		Features:                  append([]string{}, raw.Features...),
	}

	if raw.PendingPlanTier != nil && strings.TrimSpace(*raw.PendingPlanTier) != "" {
		pt, _ := ParseTier(*raw.PendingPlanTier)
		s.PendingPlanTier = &pt
	}
	// A pending change without an effective date is not a pending change.
	if s.PendingPlanTier == nil || s.PendingPlanEffectiveDate == nil {
		s.PendingPlanTier = nil
		s.PendingPlanEffectiveDate = nil
	}
	return s
}
