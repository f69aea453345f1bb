package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Service interface {
	// Search returns at most MaxResults matches ordered households, then
	// members, then parking slots. It fails only when every source fails.
	Search(ctx context.Context, query string) ([]Result, error)
}

type Repository interface {
	SearchHouseholds(ctx context.Context, db *gorm.DB, term string, limit int) ([]HouseholdHit, error)
	SearchMembers(ctx context.Context, db *gorm.DB, term string, limit int) ([]MemberHit, error)
	SearchParking(ctx context.Context, db *gorm.DB, term string, limit int) ([]ParkingHit, error)
}

var ErrSearchUnavailable = errors.New("search_unavailable")
