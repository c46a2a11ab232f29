package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Operation names a controller operation.
type Operation string

const (
	OpFetchPlan           Operation = "fetch_plan"
	OpUpgradePlan         Operation = "upgrade_plan"
	OpCancelPlan          Operation = "cancel_plan"
	OpResumePlan          Operation = "resume_plan"
	OpUpdatePaymentMethod Operation = "update_payment_method"
)

type EventType string

const (
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event is one user-facing outcome. Kind and Err are empty on success.
type Event struct {
	ID          uuid.UUID
	Type        EventType
	Operation   Operation
	Kind        Kind
	Title       string
	Description string
	Err         error
	TenantSlug  string
	At          time.Time
}

// Notifier receives user-facing success and error events.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev Event)

func (f NotifierFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

// Message is the title/description pair shown for an event.
type Message struct {
	Title       string
	Description string
}

var errorMessages = map[Kind]Message{
	KindNotFound:            {"No subscription found", "This clinic has no subscription yet. Choose a plan to get started."},
	KindAccessDenied:        {"Access denied", "Only the account owner can manage billing for this clinic."},
	KindConflict:            {"Change not possible", "Your subscription is not in a state that allows this change."},
	KindInvalidTarget:       {"Plan unavailable", "The selected plan does not exist or cannot be purchased."},
	KindUpstreamUnavailable: {"Payment provider unavailable", "We could not reach the payment provider. Please try again in a few minutes."},
	KindMissingRedirect:     {"Could not continue", "The billing service did not return where to continue. Please try again."},
	KindPlanNotLoaded:       {"Plan not loaded", "Load your current plan before making changes."},
	KindUnclassified:        {"Something went wrong", "Please try again or contact support."},
}

// Per-operation overrides; they keep the distinct conflict cases apart.
var opErrorMessages = map[Operation]map[Kind]Message{
	OpFetchPlan: {
		KindUpstreamUnavailable: {"Could not load plan", "Billing is temporarily unavailable. Showing placeholder plan details; please retry shortly."},
	},
	OpUpgradePlan: {
		KindConflict:        {"Plan change already pending", "A plan change is already scheduled and cannot be replaced."},
		KindMissingRedirect: {"Upgrade failed", "No approval URL received."},
	},
	OpCancelPlan: {
		KindConflict: {"Already cancelled", "This subscription is already cancelled or has a pending cancellation."},
	},
	OpResumePlan: {
		KindConflict: {"Cannot resume", "This subscription is not in a resumable state."},
	},
	OpUpdatePaymentMethod: {
		KindMissingRedirect: {"Payment method update failed", "No billing portal URL received."},
	},
}

var successMessages = map[Operation]Message{
	OpFetchPlan:           {"Plan loaded", "Your current plan details are up to date."},
	OpUpgradePlan:         {"Redirecting to payment", "Approve the payment to complete your plan change."},
	OpCancelPlan:          {"Subscription cancelled", "Your subscription will end at the close of the current billing period."},
	OpResumePlan:          {"Subscription resumed", "Your subscription will continue as before."},
	OpUpdatePaymentMethod: {"Redirecting to billing portal", "Update your payment method in the billing portal."},
}

// ErrorMessage selects the message for a failed operation.
func ErrorMessage(op Operation, kind Kind) Message {
	if m, ok := opErrorMessages[op][kind]; ok {
		return m
	}
	if m, ok := errorMessages[kind]; ok {
		return m
	}
	return errorMessages[KindUnclassified]
}

// SuccessMessage selects the message for a successful operation.
func SuccessMessage(op Operation) Message {
	return successMessages[op]
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, string) {}
