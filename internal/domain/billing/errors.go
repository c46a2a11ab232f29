package billing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// Kind is a failure class. Several wire conditions may map to one Kind.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindAccessDenied        Kind = "access_denied"
	KindConflict            Kind = "conflict"
	KindInvalidTarget       Kind = "invalid_target"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindMissingRedirect     Kind = "missing_redirect"
	KindPlanNotLoaded       Kind = "plan_not_loaded"
	KindUnclassified        Kind = "unclassified"
)

var (
	ErrPlanNotLoaded   = errors.New("billing: plan not loaded")
	ErrMissingRedirect = errors.New("billing: missing redirect")
	ErrInvalidTier     = errors.New("billing: invalid target tier")
	// ErrSessionExpired is returned by token sources once the caller's
	// session has expired or was revoked.
	ErrSessionExpired = errors.New("billing: session expired")

	ErrMissingApprovalURL = fmt.Errorf("%w: no approval URL received", ErrMissingRedirect)
	ErrMissingPortalURL   = fmt.Errorf("%w: no portal URL received", ErrMissingRedirect)

	// Not notified: another mutation holds the guard, so no operation ran.
	ErrMutationInProgress = errors.New("billing: another billing change is in progress")
	// Not notified: the response belonged to a tenant context that is gone.
	ErrTenantSwitched = errors.New("billing: tenant context changed during request")
)

// Error is what every failed controller operation returns.
type Error struct {
	Op   Operation
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("billing: %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, classifying it if needed.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return Classify(err)
}

// codeKinds maps machine codes returned by the billing service.
var codeKinds = map[string]Kind{
	"subscription_not_found": KindNotFound,
	"no_subscription":        KindNotFound,

	"forbidden":       KindAccessDenied,
	"not_owner":       KindAccessDenied,
	"tenant_mismatch": KindAccessDenied,

	"pending_change_exists": KindConflict,
	"already_cancelled":     KindConflict,
	"pending_cancellation":  KindConflict,
	"not_resumable":         KindConflict,

	"invalid_plan":         KindInvalidTarget,
	"plan_not_found":       KindInvalidTarget,
	"plan_not_purchasable": KindInvalidTarget,

	"processor_unavailable": KindUpstreamUnavailable,
	"processor_error":       KindUpstreamUnavailable,
}

// Classify maps an error to a Kind. Local sentinels first, then the service's
// error code, then its HTTP status, then an expired session, then transport
// failures.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPlanNotLoaded):
		return KindPlanNotLoaded
	case errors.Is(err, ErrMissingRedirect):
		return KindMissingRedirect
	case errors.Is(err, ErrInvalidTier):
		return KindInvalidTarget
	case errors.Is(err, ErrMutationInProgress):
		return KindConflict
	}

	var apiErr APIError
	if errors.As(err, &apiErr) {
		if k, ok := codeKinds[apiErr.ErrorCode()]; ok {
			return k
		}
		switch apiErr.HTTPStatus() {
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindAccessDenied
		case http.StatusConflict:
			return KindConflict
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return KindInvalidTarget
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return KindUpstreamUnavailable
		}
		return KindUnclassified
	}

	// Token source failures arrive wrapped in *url.Error, which is a net.Error.
	if errors.Is(err, ErrSessionExpired) {
		return KindAccessDenied
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUpstreamUnavailable
	}
	return KindUnclassified
}
