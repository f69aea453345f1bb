package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextStatus(t *testing.T) {
	asOf := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record Record
		want   Status
	}{
		{"pending due yesterday", Record{StatusPending, date(2024, 5, 9)}, StatusOverdue},
		{"pending due today", Record{StatusPending, date(2024, 5, 10)}, StatusPending},
		{"pending due tomorrow", Record{StatusPending, date(2024, 5, 11)}, StatusPending},
		{"overdue stays overdue", Record{StatusOverdue, date(2024, 1, 1)}, StatusOverdue},
		{"paid stays paid", Record{StatusPaid, date(2024, 1, 1)}, StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStatus(tt.record, asOf))
		})
	}
}

func TestNextStatusIsStableOnceApplied(t *testing.T) {
	asOf := date(2024, 5, 10)
	r := Record{Status: StatusPending, DueDate: date(2024, 5, 1)}

	r.Status = NextStatus(r, asOf)
	assert.Equal(t, StatusOverdue, r.Status)
	assert.Equal(t, StatusOverdue, NextStatus(r, asOf.AddDate(1, 0, 0)))
}

func TestNextStatusUsesCalendarDayOfAsOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 2024-05-10 01:00 in Jakarta is still 2024-05-09 in UTC.
	asOf := time.Date(2024, 5, 10, 1, 0, 0, 0, jakarta)

	assert.Equal(t, StatusOverdue, NextStatus(Record{StatusPending, date(2024, 5, 9)}, asOf))
	assert.Equal(t, StatusPending, NextStatus(Record{StatusPending, date(2024, 5, 10)}, asOf))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusOverdue))
	assert.True(t, CanTransition(StatusPending, StatusPaid))
	assert.True(t, CanTransition(StatusOverdue, StatusPaid))

	assert.False(t, CanTransition(StatusOverdue, StatusPending))
	assert.False(t, CanTransition(StatusPaid, StatusPaid))
	assert.False(t, CanTransition(StatusPaid, StatusPending))
	assert.False(t, CanTransition(StatusPending, StatusPending))
}

func TestStartOfDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	instant := time.Date(2024, 5, 9, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, date(2024, 5, 9), StartOfDay(instant, time.UTC))
	assert.Equal(t, date(2024, 5, 10), StartOfDay(instant, jakarta))
	assert.Equal(t, date(2024, 5, 9), StartOfDay(instant, nil))
}

func TestDaysPastDue(t *testing.T) {
	assert.Equal(t, 0, DaysPastDue(date(2024, 5, 10), date(2024, 5, 10)))
	assert.Equal(t, 9, DaysPastDue(date(2024, 5, 1), date(2024, 5, 10)))
	assert.Equal(t, 0, DaysPastDue(date(2024, 6, 1), date(2024, 5, 10)))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "payments", KindPayments.Table())
	assert.Equal(t, "utility_bills", KindUtilityBills.Table())
	assert.Empty(t, Kind("households").Table())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-05-10 ")
	assert.NoError(t, err)
	assert.Equal(t, date(2024, 5, 10), got)

	_, err = ParseDate("10/05/2024")
	assert.Error(t, err)
}
