package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinic-billing/internal/domain/billing"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Store persists events in billing_events so the dashboard can show a
// history. A failed write is logged and otherwise ignored.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStore(db *gorm.DB, l *zap.Logger) *Store {
	if l == nil {
		l = zap.NewNop()
	}
	return &Store{db: db, log: l}
}

func (s *Store) Notify(ctx context.Context, ev billing.Event) {
	rec := billing.NewEventRecord(ev)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		s.log.Error("failed to store billing event",
			zap.String("event_id", rec.ID.String()),
			zap.String("tenant", rec.TenantSlug),
			zap.Error(err),
		)
	}
}

// Recent returns the newest events of tenant, newest first.
func (s *Store) Recent(ctx context.Context, tenant string, limit int) ([]billing.EventRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var out []billing.EventRecord
	err := s.db.WithContext(ctx).
		Where("tenant_slug = ?", tenant).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list billing events: %w", err)
	}
	return out, nil
}
