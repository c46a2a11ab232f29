package plans

import "fmt"

// Derived read-only views. All of them accept a nil snapshot.

func (s *Snapshot) IsActive() bool {
	return s != nil && s.Status == StatusActive
}

func (s *Snapshot) IsCancelled() bool {
	return s != nil && s.Status == StatusCancelled
}

// HasPendingChange reports a scheduled cancellation or a scheduled tier change.
// A tier change only counts when its effective date is known.
func (s *Snapshot) HasPendingChange() bool {
	if s == nil {
		return false
	}
	return s.CancellationEffectiveDate != nil ||
		(s.PendingPlanTier != nil && s.PendingPlanEffectiveDate != nil)
}

// PendingChangeDescription describes the scheduled change, if any.
// A scheduled cancellation wins over a scheduled tier change.
func (s *Snapshot) PendingChangeDescription() (string, bool) {
	if s == nil {
		return "", false
	}
	if s.CancellationEffectiveDate != nil {
		return fmt.Sprintf("Plan will be cancelled on %s", s.CancellationEffectiveDate.UTC().Format(dayLayout)), true
	}
	if s.PendingPlanTier != nil && s.PendingPlanEffectiveDate != nil {
		return fmt.Sprintf("Plan will change to %s on %s", *s.PendingPlanTier, s.PendingPlanEffectiveDate.UTC().Format(dayLayout)), true
	}
	return "", false
}
