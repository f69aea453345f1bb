package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type CreateFeeCategoryRequest struct {
	Name          string `json:"name"`
	DefaultAmount string `json:"default_amount"`
	Frequency     string `json:"frequency"`
}

type CreatePaymentRequest struct {
	HouseholdID   string `json:"household_id"`
	FeeCategoryID string `json:"fee_category_id"`
	// Amount falls back to the fee category's default when empty.
	Amount  string `json:"amount"`
	DueDate string `json:"due_date"`
	Note    string `json:"note"`
}

type ListPaymentRequest struct {
	HouseholdID string
	Status      string
	PageToken   string
	PageSize    int
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type RecordPaymentRequest struct {
	ID string `json:"-"`
	// PaidDate defaults to today in the billing time zone.
	PaidDate string `json:"paid_date"`
}

type Service interface {
	CreateFeeCategory(context.Context, CreateFeeCategoryRequest) (FeeCategory, error)
	ListFeeCategories(context.Context) ([]FeeCategory, error)

	Create(context.Context, CreatePaymentRequest) (Payment, error)
	GetByID(context.Context, string) (Payment, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)
	RecordPayment(context.Context, RecordPaymentRequest) (Payment, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidHouseholdID   = errors.New("invalid_household_id")
	ErrInvalidFeeCategoryID = errors.New("invalid_fee_category_id")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidDueDate       = errors.New("invalid_due_date")
	ErrInvalidPaidDate      = errors.New("invalid_paid_date")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidFrequency     = errors.New("invalid_frequency")
	ErrDuplicateCode        = errors.New("duplicate_code")
	ErrHouseholdNotFound    = errors.New("household_not_found")
	ErrFeeCategoryNotFound  = errors.New("fee_category_not_found")
	ErrNotFound             = errors.New("not_found")
)
