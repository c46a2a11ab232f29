package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-billing/internal/domain/billing"
	"clinic-billing/internal/domain/plans"
)

type stubAPI struct {
	calls atomic.Int32
}

func (a *stubAPI) GetCurrentPlan(context.Context) (plans.RawSnapshot, error) {
	a.calls.Add(1)
	return plans.RawSnapshot{Tier: "BASIC", Status: "active"}, nil
}

func (a *stubAPI) Upgrade(context.Context, billing.UpgradeRequest) (billing.UpgradeResult, error) {
	return billing.UpgradeResult{}, nil
}

func (a *stubAPI) Cancel(context.Context, billing.CancelRequest) (billing.CancelResult, error) {
	return billing.CancelResult{}, nil
}

func (a *stubAPI) Resume(context.Context) error { return nil }

func (a *stubAPI) UpdatePaymentMethod(context.Context) (billing.PaymentMethodResult, error) {
	return billing.PaymentMethodResult{}, nil
}

type countingGauge struct {
	n atomic.Int64
}

func (g *countingGauge) Inc() { g.n.Add(1) }
func (g *countingGauge) Dec() { g.n.Add(-1) }

func claims(id, tenant string) Claims {
	return Claims{
		ID:         id,
		UserID:     "user-1",
		TenantSlug: tenant,
		Role:       "owner",
		Token:      "token-" + id,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func newTestRegistry(t *testing.T, idle time.Duration, opts ...RegistryOption) (*Registry, *stubAPI) {
	t.Helper()
	api := &stubAPI{}
	r := NewRegistry(10, idle, func(s *Session) *billing.Controller {
		return billing.New(api, s, s.Tenant())
	}, opts...)
	return r, api
}

func TestSession_TokenAndAuthenticated(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newSession(Claims{ID: "s1", Token: "abc", ExpiresAt: now.Add(time.Minute)}, func() time.Time { return now })

	assert.True(t, s.Authenticated())
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())

	now = now.Add(time.Minute)
	assert.False(t, s.Authenticated())
	_, err = s.Token()
	assert.ErrorIs(t, err, ErrExpired)
	assert.ErrorIs(t, err, billing.ErrSessionExpired)

	s.Refresh(Claims{ID: "s1", Token: "def", ExpiresAt: now.Add(time.Hour)})
	assert.True(t, s.Authenticated())

	s.Revoke()
	assert.False(t, s.Authenticated())
}

func TestRegistry_ResolveReusesController(t *testing.T) {
	gauge := &countingGauge{}
	r, _ := newTestRegistry(t, time.Hour, WithGauge(gauge))

	a := r.Resolve(claims("s1", "smile-dental"))
	b := r.Resolve(claims("s1", "smile-dental"))
	c := r.Resolve(claims("s2", "smile-dental"))

	assert.Same(t, a.Controller, b.Controller)
	assert.Equal(t, "owner", a.Session.Role())
	assert.Equal(t, "user-1", a.Session.UserID())
	assert.NotSame(t, a.Controller, c.Controller)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, int64(2), gauge.n.Load())
}

func TestRegistry_TenantChangeSwitchesController(t *testing.T) {
	r, api := newTestRegistry(t, time.Hour)

	e := r.Resolve(claims("s1", "clinic-a"))
	_, err := e.Controller.FetchPlan(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, e.Controller.Current().Snapshot)

	e = r.Resolve(claims("s1", "clinic-b"))
	assert.Equal(t, "clinic-b", e.Controller.Tenant())
	assert.Equal(t, "clinic-b", e.Session.Tenant())
	assert.Nil(t, e.Controller.Current().Snapshot)

	_, err = e.Controller.FetchPlan(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.calls.Load())
}

func TestRegistry_RemoveClearsState(t *testing.T) {
	gauge := &countingGauge{}
	r, _ := newTestRegistry(t, time.Hour, WithGauge(gauge))

	e := r.Resolve(claims("s1", "smile-dental"))
	_, err := e.Controller.FetchPlan(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, r.Remove("s1"))
	assert.False(t, r.Remove("s1"))
	assert.Nil(t, e.Controller.Current().Snapshot)
	assert.False(t, e.Session.Authenticated())
	assert.Equal(t, int64(0), gauge.n.Load())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_IdleSessionExpires(t *testing.T) {
	gauge := &countingGauge{}
	r, _ := newTestRegistry(t, 50*time.Millisecond, WithGauge(gauge))

	first := r.Resolve(claims("s1", "smile-dental"))
	time.Sleep(80 * time.Millisecond)

	second := r.Resolve(claims("s1", "smile-dental"))
	assert.NotSame(t, first.Controller, second.Controller)
	assert.False(t, first.Session.Authenticated())
	assert.True(t, second.Session.Authenticated())
	assert.Equal(t, int64(1), gauge.n.Load())
}

func TestNavigator_WritesIntoRequestSlot(t *testing.T) {
	ctx, slot := WithRedirectSlot(context.Background())

	Navigator{}.Navigate(ctx, "https://pay.example.com/approve")
	assert.Equal(t, "https://pay.example.com/approve", slot.URL())

	assert.NotPanics(t, func() {
		Navigator{}.Navigate(context.Background(), "https://ignored.example.com")
	})
}
