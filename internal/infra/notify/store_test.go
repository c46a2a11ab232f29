package notify

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clinic-billing/internal/domain/billing"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestStore_Notify(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "billing_events"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	store.Notify(context.Background(), billing.Event{
		ID:         uuid.New(),
		Type:       billing.EventError,
		Operation:  billing.OpUpgradePlan,
		Kind:       billing.KindInvalidTarget,
		Title:      "Plan unavailable",
		Err:        errors.New("422"),
		TenantSlug: "smile-dental",
		At:         time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_NotifyFailureIsLogged(t *testing.T) {
	db, mock := setupMockDB(t)
	core, logs := observer.New(zap.ErrorLevel)
	store := NewStore(db, zap.New(core))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "billing_events"`)).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	store.Notify(context.Background(), billing.Event{Type: billing.EventSuccess, Operation: billing.OpResumePlan})

	assert.NoError(t, mock.ExpectationsWereMet())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to store billing event", logs.All()[0].Message)
}

func TestStore_Recent(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db, nil)

	id := uuid.New()
	created := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "tenant_slug", "operation", "type", "kind", "title", "description", "error", "created_at"}).
		AddRow(id.String(), "smile-dental", "cancel_plan", "success", nil, "Subscription cancelled", "", nil, created)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "billing_events" WHERE tenant_slug = $1 ORDER BY created_at DESC`)).
		WillReturnRows(rows)

	events, err := store.Recent(context.Background(), "smile-dental", 1000)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, "cancel_plan", events[0].Operation)
	assert.Nil(t, events[0].Kind)
	assert.Equal(t, created, events[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "billing_events"`)).
		WillReturnError(errors.New("connection reset"))

	_, err := store.Recent(context.Background(), "smile-dental", 0)
	assert.ErrorContains(t, err, "list billing events")
}
