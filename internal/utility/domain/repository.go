package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListUtilityBillFilter struct {
	HouseholdID snowflake.ID
	Status      billingdomain.Status
	Type        Type
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *UtilityBill) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*UtilityBill, error)
	List(ctx context.Context, db *gorm.DB, filter ListUtilityBillFilter, page pagination.Pagination) ([]*UtilityBill, error)
	HouseholdExists(ctx context.Context, db *gorm.DB, householdID snowflake.ID) (bool, error)
}
