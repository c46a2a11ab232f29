package billing

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"clinic-billing/internal/domain/plans"
)

// DegradedSnapshot is a placeholder plan served when the billing service
// could not be reached. It is never stored in the PlanCache.
type DegradedSnapshot struct {
	Snapshot   *plans.Snapshot
	TenantSlug string
	Cause      error
	At         time.Time
}

// SeedCatalog holds the deterministic fallback snapshots, keyed by
// lower-cased tenant slug.
type SeedCatalog struct {
	byTenant map[string]*plans.Snapshot
	fallback *plans.Snapshot
}

var defaultFeatures = []string{"online_booking", "patient_records", "email_reminders"}

// DefaultSeeds returns the built-in catalogue.
func DefaultSeeds() *SeedCatalog {
	basic := &plans.Snapshot{
		Tier:         plans.TierBasic,
		Status:       plans.StatusActive,
		Price:        49,
		Currency:     "USD",
		BillingCycle: plans.CycleMonthly,
		Features:     defaultFeatures,
	}
	professional := &plans.Snapshot{
		Tier:         plans.TierProfessional,
		Status:       plans.StatusActive,
		Price:        149,
		Currency:     "USD",
		BillingCycle: plans.CycleMonthly,
		Features:     append(append([]string{}, defaultFeatures...), "sms_reminders", "online_store", "multi_staff"),
	}
	return NewSeedCatalog(basic, map[string]*plans.Snapshot{
		"demo":        professional,
		"demo-clinic": professional,
	})
}

// NewSeedCatalog copies every snapshot it is given.
func NewSeedCatalog(fallback *plans.Snapshot, byTenant map[string]*plans.Snapshot) *SeedCatalog {
	c := &SeedCatalog{
		byTenant: make(map[string]*plans.Snapshot, len(byTenant)),
		fallback: fallback.Clone(),
	}
	for slug, s := range byTenant {
		c.byTenant[strings.ToLower(strings.TrimSpace(slug))] = s.Clone()
	}
	return c
}

// Lookup returns a private copy of the seed for slug (case-insensitive), or
// of the fallback seed.
func (c *SeedCatalog) Lookup(slug string) *plans.Snapshot {
	if s, ok := c.byTenant[strings.ToLower(strings.TrimSpace(slug))]; ok {
		return s.Clone()
	}
	return c.fallback.Clone()
}

type seedEntry struct {
	Tier              string   `yaml:"tier"`
	Status            string   `yaml:"status"`
	Price             float64  `yaml:"price"`
	Currency          string   `yaml:"currency"`
	BillingCycle      string   `yaml:"billing_cycle"`
	PaymentMethodMask string   `yaml:"payment_method_mask"`
	Features          []string `yaml:"features"`
}

type seedFile struct {
	Default seedEntry            `yaml:"default"`
	Tenants map[string]seedEntry `yaml:"tenants"`
}

func (e seedEntry) snapshot() (*plans.Snapshot, error) {
	tier, ok := plans.ParseTier(e.Tier)
	if !ok {
		return nil, fmt.Errorf("unknown tier %q", e.Tier)
	}
	status := e.Status
	if strings.TrimSpace(status) == "" {
		status = string(plans.StatusActive)
	}
	return plans.FromWire(plans.RawSnapshot{
		Tier:              string(tier),
		Status:            status,
		Price:             e.Price,
		Currency:          e.Currency,
		BillingCycle:      e.BillingCycle,
		PaymentMethodMask: e.PaymentMethodMask,
		Features:          e.Features,
	}), nil
}

// LoadSeedFile reads a YAML catalogue:
//
//	default:
//	  tier: BASIC
//	  price: 49
//	tenants:
//	  smile-dental:
//	    tier: PROFESSIONAL
func LoadSeedFile(path string) (*SeedCatalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	fallback, err := f.Default.snapshot()
	if err != nil {
		return nil, fmt.Errorf("seed default: %w", err)
	}
	byTenant := make(map[string]*plans.Snapshot, len(f.Tenants))
	for slug, e := range f.Tenants {
		s, err := e.snapshot()
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", slug, err)
		}
		byTenant[slug] = s
	}
	return NewSeedCatalog(fallback, byTenant), nil
}
