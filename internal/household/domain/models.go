package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusVacant   Status = "vacant"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusVacant, StatusInactive:
		return true
	default:
		return false
	}
}

type Household struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	Unit       string            `gorm:"type:varchar(64);not null;uniqueIndex" json:"unit"`
	OwnerName  string            `gorm:"not null" json:"owner_name"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Status     Status            `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	Area       *decimal.Decimal  `gorm:"type:decimal(10,2)" json:"area,omitempty"`
	Floor      *int              `json:"floor,omitempty"`
	MoveInDate *time.Time        `gorm:"type:date" json:"move_in_date,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null" json:"updated_at"`
}

type Member struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	HouseholdID  snowflake.ID `gorm:"not null;index" json:"household_id"`
	Name         string       `gorm:"not null" json:"name"`
	IDNumber     string       `gorm:"column:id_number" json:"id_number,omitempty"`
	Relationship string       `json:"relationship,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
}

func (Member) TableName() string { return "household_members" }

type ParkingSlot struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	HouseholdID  snowflake.ID `gorm:"not null;index" json:"household_id"`
	SlotNumber   string       `gorm:"type:varchar(32);not null;uniqueIndex" json:"slot_number"`
	LicensePlate string       `json:"license_plate,omitempty"`
	VehicleType  string       `json:"vehicle_type,omitempty"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
}
