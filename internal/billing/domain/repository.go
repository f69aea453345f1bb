package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository holds the lifecycle writes shared by every billing table. Both
// are single conditional updates so concurrent callers cannot move a record
// backward.
type Repository interface {
	MarkOverdue(ctx context.Context, db *gorm.DB, kind Kind, today, now time.Time) (int64, error)
	MarkPaid(ctx context.Context, db *gorm.DB, kind Kind, id snowflake.ID, paidDate, now time.Time) (int64, error)
}
