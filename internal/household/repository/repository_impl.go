package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/household/domain"
	"github.com/smallbiznis/estate/pkg/db/option"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"github.com/smallbiznis/estate/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, household *domain.Household) error {
	return repository.ProvideStore[domain.Household](db).Create(ctx, household)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Household, error) {
	return repository.ProvideStore[domain.Household](db).FindOne(ctx, &domain.Household{ID: id})
}

func (r *repo) List(ctx context.Context, db *gorm.DB, status domain.Status, page pagination.Pagination) ([]*domain.Household, error) {
	cursor, err := pagination.DecodeCursor(page.PageToken)
	if err != nil {
		return nil, err
	}
	return repository.ProvideStore[domain.Household](db).Find(ctx,
		&domain.Household{Status: status},
		option.ApplyPagination(page, cursor),
	)
}

func (r *repo) CountMembers(ctx context.Context, db *gorm.DB, householdID snowflake.ID) (int64, error) {
	return repository.ProvideStore[domain.Member](db).Count(ctx, &domain.Member{HouseholdID: householdID})
}

func (r *repo) InsertMember(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO household_members (id, household_id, name, id_number, relationship, phone, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.HouseholdID,
		member.Name,
		member.IDNumber,
		member.Relationship,
		member.Phone,
		member.CreatedAt,
	).Error
}

func (r *repo) ListMembers(ctx context.Context, db *gorm.DB, householdID snowflake.ID) ([]*domain.Member, error) {
	return repository.ProvideStore[domain.Member](db).Find(ctx,
		&domain.Member{HouseholdID: householdID},
		option.WithOrder("name", false),
	)
}

func (r *repo) InsertParkingSlot(ctx context.Context, db *gorm.DB, slot *domain.ParkingSlot) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO parking_slots (id, household_id, slot_number, license_plate, vehicle_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		slot.ID,
		slot.HouseholdID,
		slot.SlotNumber,
		slot.LicensePlate,
		slot.VehicleType,
		slot.CreatedAt,
	).Error
}

func (r *repo) ListParkingSlots(ctx context.Context, db *gorm.DB, householdID snowflake.ID) ([]*domain.ParkingSlot, error) {
	return repository.ProvideStore[domain.ParkingSlot](db).Find(ctx,
		&domain.ParkingSlot{HouseholdID: householdID},
		option.WithOrder("slot_number", false),
	)
}
