package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) MarkOverdue(ctx context.Context, db *gorm.DB, kind domain.Kind, today, now time.Time) (int64, error) {
	table := kind.Table()
	if table == "" {
		return 0, domain.ErrInvalidKind
	}

	res := db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE %s SET status = ?, updated_at = ? WHERE status = ? AND due_date < ?`, table),
		domain.StatusOverdue,
		now.UTC(),
		domain.StatusPending,
		today.UTC(),
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, kind domain.Kind, id snowflake.ID, paidDate, now time.Time) (int64, error) {
	table := kind.Table()
	if table == "" {
		return 0, domain.ErrInvalidKind
	}

	res := db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE %s SET status = ?, paid_date = ?, updated_at = ? WHERE id = ? AND status IN (?, ?)`, table),
		domain.StatusPaid,
		paidDate.UTC(),
		now.UTC(),
		id,
		domain.StatusPending,
		domain.StatusOverdue,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
