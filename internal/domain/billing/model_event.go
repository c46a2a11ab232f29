package billing

import (
	"time"

	"github.com/google/uuid"
)

// EventRecord is the persisted form of an Event (table billing_events).
type EventRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantSlug  string    `gorm:"index:idx_billing_events_tenant_created,priority:1;not null" json:"tenantSlug"`
	Operation   string    `gorm:"type:varchar(40);not null" json:"operation"`
	Type        string    `gorm:"type:varchar(10);not null" json:"type"`
	Kind        *string   `gorm:"type:varchar(40)" json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `gorm:"index:idx_billing_events_tenant_created,priority:2" json:"createdAt"`
}

func (EventRecord) TableName() string { return "billing_events" }

// NewEventRecord flattens ev for storage.
func NewEventRecord(ev Event) EventRecord {
	rec := EventRecord{
		ID:          ev.ID,
		TenantSlug:  ev.TenantSlug,
		Operation:   string(ev.Operation),
		Type:        string(ev.Type),
		Title:       ev.Title,
		Description: ev.Description,
		CreatedAt:   ev.At,
	}
	if ev.Kind != "" {
		k := string(ev.Kind)
		rec.Kind = &k
	}
	if ev.Err != nil {
		e := ev.Err.Error()
		rec.Error = &e
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return rec
}
