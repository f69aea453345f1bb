package domain

import (
	"strings"
	"time"
)

// StartOfDay returns the calendar day of t as observed in loc, expressed as
// midnight UTC. Due dates are stored the same way so the two compare as
// plain dates.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates a stored date to midnight UTC.
func DateOf(t time.Time) time.Time {
	return StartOfDay(t, time.UTC)
}

// DaysPastDue counts whole days between dueDate and today, never negative.
func DaysPastDue(dueDate, today time.Time) int {
	days := int(DateOf(today).Sub(DateOf(dueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ParseDate reads a YYYY-MM-DD date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), time.UTC)
}
