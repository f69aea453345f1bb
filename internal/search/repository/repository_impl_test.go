package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	householddomain "github.com/smallbiznis/estate/internal/household/domain"
	"github.com/smallbiznis/estate/internal/search/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&householddomain.Household{}, &householddomain.Member{}, &householddomain.ParkingSlot{}))
	return db
}

func TestSearchMatchesDiacriticNames(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&householddomain.Household{ID: 1, Unit: "A-1203", OwnerName: "NGUYỄN VĂN AN", Status: "active", CreatedAt: now, UpdatedAt: now}).Error)
	require.NoError(t, db.Create(&householddomain.Member{ID: 2, HouseholdID: 1, Name: "Trần Thị Bích", CreatedAt: now}).Error)
	require.NoError(t, db.Create(&householddomain.ParkingSlot{ID: 3, HouseholdID: 1, SlotNumber: "B2-07", LicensePlate: "51Đ-123.45", CreatedAt: now}).Error)

	repo := repository.Provide()
	ctx := context.Background()

	for _, term := range []string{"NGUYỄN", "NGUYỄN VĂN", "nguyỄn vĂn an"} {
		hits, err := repo.SearchHouseholds(ctx, db, term, 5)
		require.NoError(t, err)
		if assert.Len(t, hits, 1, term) {
			assert.Equal(t, "NGUYỄN VĂN AN", hits[0].OwnerName)
		}
	}

	members, err := repo.SearchMembers(ctx, db, "Trần Thị", 5)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "A-1203", members[0].Unit)

	slots, err := repo.SearchParking(ctx, db, "51Đ", 5)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "B2-07", slots[0].SlotNumber)
}

func TestSearchFoldsASCIICase(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&householddomain.Household{ID: 1, Unit: "101", OwnerName: "Budi Santoso", Status: "active", CreatedAt: now, UpdatedAt: now}).Error)

	hits, err := repository.Provide().SearchHouseholds(context.Background(), db, "SANTOSO", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "101", hits[0].Unit)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&householddomain.Household{ID: 1, Unit: "101", OwnerName: "Budi", Status: "active", CreatedAt: now, UpdatedAt: now}).Error)

	hits, err := repository.Provide().SearchHouseholds(context.Background(), db, "_0_", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
