package stripe

import (
	"strings"

	stripego "github.com/stripe/stripe-go/v75"
)

// Canonical subscription statuses exposed to the dashboard.
const (
	StatusActive    = "ACTIVE"
	StatusPastDue   = "PAST_DUE"
	StatusCancelled = "CANCELLED"
	StatusPending   = "PENDING"
)

// NormalizeStatus folds the provider vocabulary (Stripe statuses, plus the
// billing service's own upper-case names) into the four canonical statuses.
// Empty input is PENDING; unknown values are upper-cased and passed through.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusPending
	}
	switch stripego.SubscriptionStatus(strings.ToLower(s)) {
	case stripego.SubscriptionStatusActive, stripego.SubscriptionStatusTrialing:
		return StatusActive
	case stripego.SubscriptionStatusPastDue, stripego.SubscriptionStatusUnpaid:
		return StatusPastDue
	case stripego.SubscriptionStatusCanceled, stripego.SubscriptionStatusIncompleteExpired, "cancelled":
		return StatusCancelled
	case stripego.SubscriptionStatusIncomplete, "paused", "pending":
		return StatusPending
	}
	return strings.ToUpper(s)
}
