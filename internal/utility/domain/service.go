package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type CreateUtilityBillRequest struct {
	HouseholdID     string `json:"household_id"`
	Type            string `json:"type"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	DueDate         string `json:"due_date"`
	PreviousReading string `json:"previous_reading"`
	CurrentReading  string `json:"current_reading"`
	Rate            string `json:"rate"`
	Amount          string `json:"amount"`
}

type ListUtilityBillRequest struct {
	HouseholdID string
	Status      string
	Type        string
	PageToken   string
	PageSize    int
}

type ListUtilityBillResponse struct {
	pagination.PageInfo
	Bills []UtilityBill `json:"utility_bills"`
}

type RecordPaymentRequest struct {
	ID       string `json:"-"`
	PaidDate string `json:"paid_date"`
}

type Service interface {
	Create(context.Context, CreateUtilityBillRequest) (UtilityBill, error)
	GetByID(context.Context, string) (UtilityBill, error)
	List(context.Context, ListUtilityBillRequest) (ListUtilityBillResponse, error)
	RecordPayment(context.Context, RecordPaymentRequest) (UtilityBill, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidHouseholdID = errors.New("invalid_household_id")
	ErrInvalidType        = errors.New("invalid_type")
	ErrInvalidPeriod      = errors.New("invalid_period")
	ErrInvalidDueDate     = errors.New("invalid_due_date")
	ErrInvalidPaidDate    = errors.New("invalid_paid_date")
	ErrInvalidReading     = errors.New("invalid_reading")
	ErrInvalidRate        = errors.New("invalid_rate")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrHouseholdNotFound  = errors.New("household_not_found")
	ErrNotFound           = errors.New("not_found")
)
