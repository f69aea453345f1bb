package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type CreateHouseholdRequest struct {
	Unit       string         `json:"unit"`
	OwnerName  string         `json:"owner_name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Status     string         `json:"status"`
	Area       string         `json:"area"`
	Floor      *int           `json:"floor"`
	MoveInDate string         `json:"move_in_date"`
	Metadata   map[string]any `json:"metadata"`
}

type ListHouseholdRequest struct {
	Status    string
	PageToken string
	PageSize  int
}

type ListHouseholdResponse struct {
	pagination.PageInfo
	Households []Household `json:"households"`
}

// HouseholdDetail is a household with its derived figures.
type HouseholdDetail struct {
	Household
	Residents int64           `json:"residents"`
	Balance   decimal.Decimal `json:"balance"`
}

type BalanceResponse struct {
	HouseholdID string          `json:"household_id"`
	AsOf        time.Time       `json:"as_of"`
	Balance     decimal.Decimal `json:"balance"`
	Aging       []AgingLine     `json:"aging"`
}

type AddMemberRequest struct {
	HouseholdID  string `json:"-"`
	Name         string `json:"name"`
	IDNumber     string `json:"id_number"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type AddParkingSlotRequest struct {
	HouseholdID  string `json:"-"`
	SlotNumber   string `json:"slot_number"`
	LicensePlate string `json:"license_plate"`
	VehicleType  string `json:"vehicle_type"`
}

type Statement struct {
	FileName string
	Content  io.Reader
}

type Service interface {
	Create(context.Context, CreateHouseholdRequest) (Household, error)
	List(context.Context, ListHouseholdRequest) (ListHouseholdResponse, error)
	GetByID(context.Context, string) (HouseholdDetail, error)
	GetBalance(context.Context, string) (BalanceResponse, error)
	Statement(context.Context, string) (Statement, error)

	AddMember(context.Context, AddMemberRequest) (Member, error)
	ListMembers(context.Context, string) ([]Member, error)
	AddParkingSlot(context.Context, AddParkingSlotRequest) (ParkingSlot, error)
	ListParkingSlots(context.Context, string) ([]ParkingSlot, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidUnit       = errors.New("invalid_unit")
	ErrInvalidOwnerName  = errors.New("invalid_owner_name")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidArea       = errors.New("invalid_area")
	ErrInvalidMoveInDate = errors.New("invalid_move_in_date")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidSlotNumber = errors.New("invalid_slot_number")
	ErrDuplicateUnit     = errors.New("duplicate_unit")
	ErrDuplicateSlot     = errors.New("duplicate_slot_number")
	ErrNotFound          = errors.New("not_found")
)
