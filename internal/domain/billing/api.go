package billing

import (
	"context"
	"time"

	"clinic-billing/internal/domain/plans"
)

// API is the remote billing service. Implementations perform the actual plan
// mutation and talk to the payment processor.
type API interface {
	GetCurrentPlan(ctx context.Context) (plans.RawSnapshot, error)
	Upgrade(ctx context.Context, req UpgradeRequest) (UpgradeResult, error)
	Cancel(ctx context.Context, req CancelRequest) (CancelResult, error)
	Resume(ctx context.Context) error
	UpdatePaymentMethod(ctx context.Context) (PaymentMethodResult, error)
}

type UpgradeRequest struct {
	TargetTier   plans.Tier          `json:"targetTier"`
	BillingCycle *plans.BillingCycle `json:"billingCycle,omitempty"`
}

type UpgradeResult struct {
	ApprovalURL string `json:"approvalUrl"`
}

type CancelRequest struct {
	Immediate bool   `json:"immediate"`
	Reason    string `json:"reason,omitempty"`
}

type CancelResult struct {
	EffectiveDate *time.Time `json:"effectiveDate"`
	Immediate     bool       `json:"immediate"`
}

type PaymentMethodResult struct {
	PortalURL string `json:"portalUrl"`
}

// APIError is implemented by transport errors that carry the billing
// service's HTTP status and machine-readable code.
type APIError interface {
	error
	HTTPStatus() int
	ErrorCode() string
}

// Authenticator reports whether the caller currently holds a usable session.
type Authenticator interface {
	Authenticated() bool
}

// Navigator sends the user to an external destination (payment approval,
// billing portal).
type Navigator interface {
	Navigate(ctx context.Context, url string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string)

func (f NavigatorFunc) Navigate(ctx context.Context, url string) { f(ctx, url) }

// Redirect is the follow-up destination of a successful upgrade or
// payment-method change.
type Redirect struct {
	URL string `json:"url"`
}
