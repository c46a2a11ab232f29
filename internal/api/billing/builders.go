package billing

import (
	"errors"
	"time"

	"clinic-billing/internal/domain/billing"
	"clinic-billing/internal/domain/plans"
)

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := plans.FormatDate(t)
	return &s
}

func BuildPlanDTO(s *plans.Snapshot) *PlanDTO {
	if s == nil {
		return nil
	}
	features := s.Features
	if features == nil {
		features = []string{}
	}
	return &PlanDTO{
		Tier:                      string(s.Tier),
		Status:                    string(s.Status),
		Price:                     s.Price,
		Currency:                  s.Currency,
		BillingCycle:              string(s.BillingCycle),
		RenewalDate:               dateString(s.RenewalDate),
		CancellationDate:          dateString(s.CancellationDate),
		CancellationEffectiveDate: dateString(s.CancellationEffectiveDate),
		PaymentMethodMask:         s.PaymentMethodMask,
		Features:                  features,
	}
}

// BuildPendingChangeDTO reports the scheduled change; a cancellation wins
// over a tier change.
func BuildPendingChangeDTO(s *plans.Snapshot) *PendingChangeDTO {
	desc, ok := s.PendingChangeDescription()
	if !ok {
		return nil
	}
	if s.CancellationEffectiveDate != nil {
		return &PendingChangeDTO{
			Kind:        "cancellation",
			EffectiveAt: dateString(s.CancellationEffectiveDate),
			Description: desc,
		}
	}
	tier := string(*s.PendingPlanTier)
	return &PendingChangeDTO{
		Kind:        "tier_change",
		Tier:        &tier,
		EffectiveAt: dateString(s.PendingPlanEffectiveDate),
		Description: desc,
	}
}

func BuildErrorDTO(err error) *ErrorDTO {
	var berr *billing.Error
	if !errors.As(err, &berr) {
		return nil
	}
	msg := billing.ErrorMessage(berr.Op, berr.Kind)
	return &ErrorDTO{Code: string(berr.Kind), Title: msg.Title, Details: msg.Description}
}

func BuildPlanResponse(view billing.PlanView, err error) PlanResponse {
	s := view.Snapshot
	resp := PlanResponse{
		Plan:             BuildPlanDTO(s),
		Degraded:         view.Degraded,
		IsActive:         s.IsActive(),
		IsCancelled:      s.IsCancelled(),
		HasPendingChange: s.HasPendingChange(),
		PendingChange:    BuildPendingChangeDTO(s),
		Error:            BuildErrorDTO(err),
	}
	if !view.FetchedAt.IsZero() {
		resp.FetchedAt = dateString(&view.FetchedAt)
	}
	return resp
}

func BuildEventDTO(rec billing.EventRecord) EventDTO {
	return EventDTO{
		ID:          rec.ID.String(),
		Operation:   rec.Operation,
		Type:        rec.Type,
		Kind:        rec.Kind,
		Title:       rec.Title,
		Description: rec.Description,
		CreatedAt:   plans.FormatDate(&rec.CreatedAt),
	}
}
