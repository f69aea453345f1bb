package domain

import (
	"context"
	"errors"
	"time"
)

// Kind names one of the independently swept billing tables.
type Kind string

const (
	KindPayments     Kind = "payments"
	KindUtilityBills Kind = "utility_bills"
)

func (k Kind) Valid() bool {
	return k == KindPayments || k == KindUtilityBills
}

// Table is the backing table. Only valid kinds map to a table.
func (k Kind) Table() string {
	if !k.Valid() {
		return ""
	}
	return string(k)
}

type SweepResult struct {
	Kind  Kind      `json:"kind"`
	Today time.Time `json:"today"`
	Count int64     `json:"count"`
}

type Service interface {
	// Sweep marks every pending record of kind due before today as overdue
	// and returns how many rows changed.
	Sweep(ctx context.Context, kind Kind) (SweepResult, error)
	SweepAsOf(ctx context.Context, kind Kind, asOf time.Time) (SweepResult, error)
}

var (
	ErrInvalidKind       = errors.New("invalid_kind")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrStoreUnavailable  = errors.New("store_unavailable")
)
