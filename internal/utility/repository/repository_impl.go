package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/utility/domain"
	"github.com/smallbiznis/estate/pkg/db/option"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"github.com/smallbiznis/estate/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.UtilityBill) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO utility_bills (id, household_id, type, period_start, period_end, due_date,
		 previous_reading, current_reading, consumption, rate, amount, status, paid_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID,
		bill.HouseholdID,
		bill.Type,
		bill.PeriodStart,
		bill.PeriodEnd,
		bill.DueDate,
		bill.PreviousReading,
		bill.CurrentReading,
		bill.Usage,
		bill.Rate,
		bill.Amount,
		bill.Status,
		bill.PaidDate,
		bill.CreatedAt,
		bill.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.UtilityBill, error) {
	return repository.ProvideStore[domain.UtilityBill](db).FindOne(ctx, &domain.UtilityBill{ID: id})
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListUtilityBillFilter, page pagination.Pagination) ([]*domain.UtilityBill, error) {
	cursor, err := pagination.DecodeCursor(page.PageToken)
	if err != nil {
		return nil, err
	}

	opts := []option.QueryOption{}
	if filter.HouseholdID != 0 {
		opts = append(opts, option.WithWhere("household_id = ?", filter.HouseholdID))
	}
	if filter.Status != "" {
		opts = append(opts, option.WithWhere("status = ?", filter.Status))
	}
	if filter.Type != "" {
		opts = append(opts, option.WithWhere("type = ?", filter.Type))
	}
	opts = append(opts, option.ApplyPagination(page, cursor))

	return repository.ProvideStore[domain.UtilityBill](db).Find(ctx, nil, opts...)
}

func (r *repo) HouseholdExists(ctx context.Context, db *gorm.DB, householdID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Table("households").Where("id = ?", householdID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
