package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/estate/internal/search/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a substring pattern for LIKE with '!' as the escape
// character. Case folding happens in SQL on both sides so the column and the
// term go through the same LOWER().
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func (r *repo) SearchHouseholds(ctx context.Context, db *gorm.DB, term string, limit int) ([]domain.HouseholdHit, error) {
	pattern := containsPattern(term)

	var hits []domain.HouseholdHit
	err := db.WithContext(ctx).Raw(
		`SELECT id, unit, owner_name
		 FROM households
		 WHERE LOWER(unit) LIKE LOWER(?) ESCAPE '!'
		    OR LOWER(owner_name) LIKE LOWER(?) ESCAPE '!'
		    OR LOWER(COALESCE(email, '')) LIKE LOWER(?) ESCAPE '!'
		    OR LOWER(COALESCE(phone, '')) LIKE LOWER(?) ESCAPE '!'
		 ORDER BY unit ASC
		 LIMIT ?`,
		pattern, pattern, pattern, pattern, limit,
	).Scan(&hits).Error
	if err != nil {
		return nil, err
	}
	return hits, nil
}

func (r *repo) SearchMembers(ctx context.Context, db *gorm.DB, term string, limit int) ([]domain.MemberHit, error) {
	pattern := containsPattern(term)

	var hits []domain.MemberHit
	err := db.WithContext(ctx).Raw(
		`SELECT m.id, m.name, COALESCE(m.id_number, '') AS id_number, h.unit
		 FROM household_members m
		 JOIN households h ON h.id = m.household_id
		 WHERE LOWER(m.name) LIKE LOWER(?) ESCAPE '!'
		    OR LOWER(COALESCE(m.id_number, '')) LIKE LOWER(?) ESCAPE '!'
		 ORDER BY m.name ASC
		 LIMIT ?`,
		pattern, pattern, limit,
	).Scan(&hits).Error
	if err != nil {
		return nil, err
	}
	return hits, nil
}

func (r *repo) SearchParking(ctx context.Context, db *gorm.DB, term string, limit int) ([]domain.ParkingHit, error) {
	pattern := containsPattern(term)

	var hits []domain.ParkingHit
	err := db.WithContext(ctx).Raw(
		`SELECT p.id, p.slot_number, COALESCE(p.license_plate, '') AS license_plate, h.unit
		 FROM parking_slots p
		 JOIN households h ON h.id = p.household_id
		 WHERE LOWER(p.slot_number) LIKE LOWER(?) ESCAPE '!'
		    OR LOWER(COALESCE(p.license_plate, '')) LIKE LOWER(?) ESCAPE '!'
		 ORDER BY p.slot_number ASC
		 LIMIT ?`,
		pattern, pattern, limit,
	).Scan(&hits).Error
	if err != nil {
		return nil, err
	}
	return hits, nil
}
