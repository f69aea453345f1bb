package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
)

type Type string

const (
	TypeElectricity Type = "electricity"
	TypeWater       Type = "water"
	TypeInternet    Type = "internet"
	TypeGas         Type = "gas"
	TypeOther       Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeElectricity, TypeWater, TypeInternet, TypeGas, TypeOther:
		return true
	default:
		return false
	}
}

type UtilityBill struct {
	ID              snowflake.ID         `gorm:"primaryKey" json:"id"`
	HouseholdID     snowflake.ID         `gorm:"not null;index" json:"household_id"`
	Type            Type                 `gorm:"type:varchar(16);not null" json:"type"`
	PeriodStart     time.Time            `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd       time.Time            `gorm:"type:date;not null" json:"period_end"`
	DueDate         time.Time            `gorm:"type:date;not null;index" json:"due_date"`
	PreviousReading *decimal.Decimal     `gorm:"type:decimal(14,3)" json:"previous_reading,omitempty"`
	CurrentReading  *decimal.Decimal     `gorm:"type:decimal(14,3)" json:"current_reading,omitempty"`
	Usage           *decimal.Decimal     `gorm:"column:consumption;type:decimal(14,3)" json:"usage,omitempty"`
	Rate            *decimal.Decimal     `gorm:"type:decimal(14,4)" json:"rate,omitempty"`
	Amount          decimal.Decimal      `gorm:"type:decimal(14,2);not null" json:"amount"`
	Status          billingdomain.Status `gorm:"type:varchar(16);not null;index" json:"status"`
	PaidDate        *time.Time           `gorm:"type:date" json:"paid_date,omitempty"`
	CreatedAt       time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"not null" json:"updated_at"`
}

func (UtilityBill) TableName() string { return "utility_bills" }

func (b UtilityBill) Record() billingdomain.Record {
	return billingdomain.Record{Status: b.Status, DueDate: b.DueDate}
}

// Charge derives usage from meter readings and, when no explicit amount is
// given, prices it at rate. Amounts are rounded to cents.
func Charge(previous, current, rate, amount *decimal.Decimal) (usage *decimal.Decimal, total decimal.Decimal, err error) {
	if (previous == nil) != (current == nil) {
		return nil, decimal.Decimal{}, ErrInvalidReading
	}
	if previous != nil {
		if previous.IsNegative() || current.LessThan(*previous) {
			return nil, decimal.Decimal{}, ErrInvalidReading
		}
		u := current.Sub(*previous)
		usage = &u
	}
	if rate != nil && rate.IsNegative() {
		return nil, decimal.Decimal{}, ErrInvalidRate
	}

	switch {
	case amount != nil:
		if amount.IsNegative() {
			return nil, decimal.Decimal{}, ErrInvalidAmount
		}
		return usage, amount.Round(2), nil
	case usage != nil && rate != nil:
		return usage, usage.Mul(*rate).Round(2), nil
	default:
		return nil, decimal.Decimal{}, ErrInvalidAmount
	}
}
