package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListPaymentFilter struct {
	HouseholdID snowflake.ID
	Status      billingdomain.Status
}

type Repository interface {
	InsertFeeCategory(ctx context.Context, db *gorm.DB, category *FeeCategory) error
	FindFeeCategoryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*FeeCategory, error)
	ListFeeCategories(ctx context.Context, db *gorm.DB) ([]*FeeCategory, error)
	CountFeeCategories(ctx context.Context, db *gorm.DB) (int64, error)

	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, filter ListPaymentFilter, page pagination.Pagination) ([]*Payment, error)
	ListByHousehold(ctx context.Context, db *gorm.DB, householdID snowflake.ID) ([]*Payment, error)
	HouseholdExists(ctx context.Context, db *gorm.DB, householdID snowflake.ID) (bool, error)
}
