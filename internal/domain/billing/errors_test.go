package billing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAPIError struct {
	status int
	code   string
}

func (e fakeAPIError) Error() string     { return fmt.Sprintf("%d %s", e.status, e.code) }
func (e fakeAPIError) HTTPStatus() int   { return e.status }
func (e fakeAPIError) ErrorCode() string { return e.code }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plan not loaded", ErrPlanNotLoaded, KindPlanNotLoaded},
		{"missing approval url", ErrMissingApprovalURL, KindMissingRedirect},
		{"missing portal url", ErrMissingPortalURL, KindMissingRedirect},
		{"invalid tier", fmt.Errorf("%w: PLATINUM", ErrInvalidTier), KindInvalidTarget},
		{"mutation in progress", ErrMutationInProgress, KindConflict},

		{"404", fakeAPIError{status: http.StatusNotFound}, KindNotFound},
		{"401", fakeAPIError{status: http.StatusUnauthorized}, KindAccessDenied},
		{"403", fakeAPIError{status: http.StatusForbidden}, KindAccessDenied},
		{"409", fakeAPIError{status: http.StatusConflict}, KindConflict},
		{"400", fakeAPIError{status: http.StatusBadRequest}, KindInvalidTarget},
		{"422", fakeAPIError{status: http.StatusUnprocessableEntity}, KindInvalidTarget},
		{"502", fakeAPIError{status: http.StatusBadGateway}, KindUpstreamUnavailable},
		{"503", fakeAPIError{status: http.StatusServiceUnavailable}, KindUpstreamUnavailable},
		{"504", fakeAPIError{status: http.StatusGatewayTimeout}, KindUpstreamUnavailable},
		{"500", fakeAPIError{status: http.StatusInternalServerError}, KindUnclassified},

		{"code wins over status", fakeAPIError{status: http.StatusBadRequest, code: "already_cancelled"}, KindConflict},
		{"pending change code", fakeAPIError{status: http.StatusBadRequest, code: "pending_change_exists"}, KindConflict},
		{"processor code", fakeAPIError{status: http.StatusInternalServerError, code: "processor_unavailable"}, KindUpstreamUnavailable},
		{"unknown code falls back to status", fakeAPIError{status: http.StatusNotFound, code: "whatever"}, KindNotFound},
		{"wrapped api error", fmt.Errorf("get plan: %w", fakeAPIError{status: http.StatusForbidden}), KindAccessDenied},

		{"deadline", context.DeadlineExceeded, KindUpstreamUnavailable},
		{"unexpected eof", fmt.Errorf("read body: %w", io.ErrUnexpectedEOF), KindUpstreamUnavailable},
		{"expired session", ErrSessionExpired, KindAccessDenied},
		{"expired session behind url error", &url.Error{Op: "Get", URL: "https://billing.example.com/api/billing/plan", Err: fmt.Errorf("session: %w", ErrSessionExpired)}, KindAccessDenied},
		{"url error from dial", &url.Error{Op: "Get", URL: "https://billing.example.com/api/billing/plan", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}, KindUpstreamUnavailable},
		{"dial error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, KindUpstreamUnavailable},
		{"plain error", errors.New("boom"), KindUnclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestKindOf_PrefersCarriedKind(t *testing.T) {
	err := fmt.Errorf("handler: %w", &Error{Op: OpCancelPlan, Kind: KindConflict, Err: errors.New("x")})
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, KindUnclassified, KindOf(errors.New("x")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Already cancelled", ErrorMessage(OpCancelPlan, KindConflict).Title)
	assert.Equal(t, "Cannot resume", ErrorMessage(OpResumePlan, KindConflict).Title)
	assert.Equal(t, "Plan change already pending", ErrorMessage(OpUpgradePlan, KindConflict).Title)
	assert.Equal(t, "No billing portal URL received.", ErrorMessage(OpUpdatePaymentMethod, KindMissingRedirect).Description)

	// Falls back to the per-kind message, then to the generic one.
	assert.Equal(t, errorMessages[KindAccessDenied], ErrorMessage(OpCancelPlan, KindAccessDenied))
	assert.Equal(t, errorMessages[KindUnclassified], ErrorMessage(OpCancelPlan, Kind("nope")))
}
