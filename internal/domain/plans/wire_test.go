package plans

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWire_MixedDateShapes(t *testing.T) {
	payload := `{
		"tier": "professional",
		"status": "active",
		"price": 149.5,
		"currency": "usd",
		"billingCycle": "year",
		"renewalDate": [2025, 3, 1, 0, 0, 0],
		"cancellationDate": "2025-02-10T08:00:00Z",
		"cancellationEffectiveDate": "2025-03-01",
		"pendingPlanTier": "enterprise",
		"pendingPlanEffectiveDate": [2025, 3, 1],
		"paymentMethodMask": "**** 4242",
		"features": ["online_booking", "sms_reminders"]
	}`
	var raw RawSnapshot
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	s := FromWire(raw)
	assert.Equal(t, TierProfessional, s.Tier)
	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, CycleAnnual, s.BillingCycle)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *s.RenewalDate)
	assert.Equal(t, time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC), *s.CancellationDate)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *s.CancellationEffectiveDate)
	require.NotNil(t, s.PendingPlanTier)
	assert.Equal(t, TierEnterprise, *s.PendingPlanTier)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *s.PendingPlanEffectiveDate)
	assert.Equal(t, []string{"online_booking", "sms_reminders"}, s.Features)

	raw.Features[0] = "mutated"
	assert.Equal(t, "online_booking", s.Features[0])
}

func TestFromWire_OrphanPendingTierDropped(t *testing.T) {
	tier := "BASIC"
	s := FromWire(RawSnapshot{Tier: "ENTERPRISE", Status: "ACTIVE", PendingPlanTier: &tier, PendingPlanEffectiveDate: "nonsense"})
	assert.Nil(t, s.PendingPlanTier)
	assert.Nil(t, s.PendingPlanEffectiveDate)
	assert.False(t, s.HasPendingChange())

	empty := "  "
	s = FromWire(RawSnapshot{PendingPlanTier: &empty, PendingPlanEffectiveDate: "2025-03-01"})
	assert.Nil(t, s.PendingPlanTier)
	assert.Nil(t, s.PendingPlanEffectiveDate)
}

func TestFromWire_Defaults(t *testing.T) {
	s := FromWire(RawSnapshot{})
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, CycleMonthly, s.BillingCycle)
	assert.NotNil(t, s.Features)
	assert.Empty(t, s.Features)
}

func TestSnapshotClone_DeepCopy(t *testing.T) {
	pending := TierEnterprise
	orig := &Snapshot{
		Tier:                     TierBasic,
		RenewalDate:              day("2025-01-01"),
		PendingPlanTier:          &pending,
		PendingPlanEffectiveDate: day("2025-02-01"),
		Features:                 []string{"a", "b"},
	}
	c := orig.Clone()
	require.NotNil(t, c)
	assert.Equal(t, orig, c)

	c.Features[0] = "z"
	*c.PendingPlanTier = TierCustom
	*c.RenewalDate = time.Time{}

	assert.Equal(t, "a", orig.Features[0])
	assert.Equal(t, TierEnterprise, *orig.PendingPlanTier)
	assert.Equal(t, 2025, orig.RenewalDate.Year())

	var nilSnap *Snapshot
	assert.Nil(t, nilSnap.Clone())
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier(" enterprise ")
	assert.True(t, ok)
	assert.Equal(t, TierEnterprise, tier)

	tier, ok = ParseTier("gold")
	assert.False(t, ok)
	assert.Equal(t, Tier("GOLD"), tier)
}
