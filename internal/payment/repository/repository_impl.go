package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/pkg/db/option"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"github.com/smallbiznis/estate/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertFeeCategory(ctx context.Context, db *gorm.DB, category *domain.FeeCategory) error {
	return repository.ProvideStore[domain.FeeCategory](db).Create(ctx, category)
}

func (r *repo) FindFeeCategoryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.FeeCategory, error) {
	return repository.ProvideStore[domain.FeeCategory](db).FindOne(ctx, &domain.FeeCategory{ID: id})
}

func (r *repo) ListFeeCategories(ctx context.Context, db *gorm.DB) ([]*domain.FeeCategory, error) {
	return repository.ProvideStore[domain.FeeCategory](db).Find(ctx, nil, option.WithOrder("name", false))
}

func (r *repo) CountFeeCategories(ctx context.Context, db *gorm.DB) (int64, error) {
	return repository.ProvideStore[domain.FeeCategory](db).Count(ctx, &domain.FeeCategory{})
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, household_id, fee_category_id, amount, due_date, status, paid_date, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.HouseholdID,
		payment.FeeCategoryID,
		payment.Amount,
		payment.DueDate,
		payment.Status,
		payment.PaidDate,
		payment.Note,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	return repository.ProvideStore[domain.Payment](db).FindOne(ctx, &domain.Payment{ID: id})
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPaymentFilter, page pagination.Pagination) ([]*domain.Payment, error) {
	cursor, err := pagination.DecodeCursor(page.PageToken)
	if err != nil {
		return nil, err
	}

	stmt := db.WithContext(ctx).Model(&domain.Payment{})
	if filter.HouseholdID != 0 {
		stmt = stmt.Where("household_id = ?", filter.HouseholdID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page, cursor).Apply(stmt)

	var items []*domain.Payment
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListByHousehold(ctx context.Context, db *gorm.DB, householdID snowflake.ID) ([]*domain.Payment, error) {
	var items []*domain.Payment
	err := db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("due_date ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) HouseholdExists(ctx context.Context, db *gorm.DB, householdID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM households WHERE id = ?`, householdID).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
