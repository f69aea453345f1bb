package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMarkPaidOnlyFromOutstanding(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE payments (
		id INTEGER PRIMARY KEY,
		status TEXT NOT NULL,
		due_date DATETIME NOT NULL,
		paid_date DATETIME,
		updated_at DATETIME
	)`).Error)

	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for id, status := range map[int64]domain.Status{1: domain.StatusPending, 2: domain.StatusOverdue, 3: domain.StatusPaid} {
		require.NoError(t, db.Exec(`INSERT INTO payments (id, status, due_date) VALUES (?, ?, ?)`, id, status, due).Error)
	}

	r := Provide()
	ctx := context.Background()
	now := time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)

	for _, tc := range []struct {
		id   int64
		want int64
	}{{1, 1}, {2, 1}, {3, 0}, {1, 0}} {
		n, err := r.MarkPaid(ctx, db, domain.KindPayments, snowflake.ID(tc.id), now, now)
		require.NoError(t, err)
		assert.Equal(t, tc.want, n, "id %d", tc.id)
	}

	_, err = r.MarkPaid(ctx, db, domain.Kind("parking_slots"), 1, now, now)
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}
