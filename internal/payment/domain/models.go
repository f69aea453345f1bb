package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
)

type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyOneTime   Frequency = "one_time"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly, FrequencyOneTime:
		return true
	default:
		return false
	}
}

type FeeCategory struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"type:varchar(128);not null;uniqueIndex" json:"code"`
	Name          string          `gorm:"not null" json:"name"`
	DefaultAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"default_amount"`
	Frequency     Frequency       `gorm:"type:varchar(16);not null" json:"frequency"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

type Payment struct {
	ID            snowflake.ID         `gorm:"primaryKey" json:"id"`
	HouseholdID   snowflake.ID         `gorm:"not null;index" json:"household_id"`
	FeeCategoryID *snowflake.ID        `gorm:"index" json:"fee_category_id,omitempty"`
	Amount        decimal.Decimal      `gorm:"type:decimal(14,2);not null" json:"amount"`
	DueDate       time.Time            `gorm:"type:date;not null;index" json:"due_date"`
	Status        billingdomain.Status `gorm:"type:varchar(16);not null;index" json:"status"`
	PaidDate      *time.Time           `gorm:"type:date" json:"paid_date,omitempty"`
	Note          string               `json:"note,omitempty"`
	CreatedAt     time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"not null" json:"updated_at"`
}

func (p Payment) Record() billingdomain.Record {
	return billingdomain.Record{Status: p.Status, DueDate: p.DueDate}
}
