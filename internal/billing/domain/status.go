package domain

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOverdue, StatusPaid:
		return true
	default:
		return false
	}
}

// Outstanding reports whether the amount still counts toward a balance.
func (s Status) Outstanding() bool {
	return s == StatusPending || s == StatusOverdue
}

// Record is the part of a payment or utility bill the lifecycle looks at.
type Record struct {
	Status  Status
	DueDate time.Time
}

// NextStatus returns the status the record should hold at asOf. Only a
// pending record whose due date is before asOf's calendar day moves, and
// it moves to overdue. The caller persists the result.
func NextStatus(r Record, asOf time.Time) Status {
	if r.Status != StatusPending {
		return r.Status
	}
	if DateOf(r.DueDate).Before(StartOfDay(asOf, asOf.Location())) {
		return StatusOverdue
	}
	return StatusPending
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusOverdue || to == StatusPaid
	case StatusOverdue:
		return to == StatusPaid
	default:
		return false
	}
}
