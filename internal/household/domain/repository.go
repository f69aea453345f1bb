package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, household *Household) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Household, error)
	List(ctx context.Context, db *gorm.DB, status Status, page pagination.Pagination) ([]*Household, error)
	CountMembers(ctx context.Context, db *gorm.DB, householdID snowflake.ID) (int64, error)

	InsertMember(ctx context.Context, db *gorm.DB, member *Member) error
	ListMembers(ctx context.Context, db *gorm.DB, householdID snowflake.ID) ([]*Member, error)
	InsertParkingSlot(ctx context.Context, db *gorm.DB, slot *ParkingSlot) error
	ListParkingSlots(ctx context.Context, db *gorm.DB, householdID snowflake.ID) ([]*ParkingSlot, error)
}
