package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifySchedulerJobReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: SchedulerJobReasonDeadlineExceeded},
		{name: "wrapped_deadline", err: fmt.Errorf("sweep: %w", context.Canceled), want: SchedulerJobReasonDeadlineExceeded},
		{name: "db_lock_timeout", err: &pgconn.PgError{Code: "55P03"}, want: SchedulerJobReasonDBLockTimeout},
		{name: "serialization_failure", err: &pgconn.PgError{Code: "40001"}, want: SchedulerJobReasonSerializationFailure},
		{name: "connection_failure", err: &pgconn.PgError{Code: "08006"}, want: SchedulerJobReasonDBUnavailable},
		{name: "invalid_db", err: gorm.ErrInvalidDB, want: SchedulerJobReasonDBUnavailable},
		{name: "unknown", err: errors.New("boom"), want: SchedulerJobReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySchedulerJobReason(tc.err))
		})
	}
}

func TestClassifySchedulerErrorType(t *testing.T) {
	assert.Equal(t, SchedulerErrorTypeUnknown, ClassifySchedulerErrorType(nil))
	assert.Equal(t, SchedulerErrorTypeDeadlineExceeded, ClassifySchedulerErrorType(context.DeadlineExceeded))
	assert.Equal(t, SchedulerErrorTypeDB, ClassifySchedulerErrorType(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, SchedulerErrorTypeBusinessRule, ClassifySchedulerErrorType(errors.New("boom")))
	assert.Equal(t, SchedulerErrorTypeBusinessRule, ClassifySchedulerErrorType(gorm.ErrRecordNotFound))

	assert.True(t, IsSchedulerErrorRetryable(gorm.ErrInvalidDB))
	assert.False(t, IsSchedulerErrorRetryable(errors.New("boom")))
}

func TestAddRecordsProcessed(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newSchedulerMetrics(registry, Config{
		ServiceName: "estate",
		Environment: "test",
	})

	m.AddRecordsProcessed("payments_overdue", "payments", 3)
	m.AddRecordsProcessed("payments_overdue", "payments", 0)

	got := testutil.ToFloat64(m.recordsProcessed.WithLabelValues("payments_overdue", "payments"))
	assert.Equal(t, float64(3), got)
}

func TestNilSchedulerMetricsIsSafe(t *testing.T) {
	var m *SchedulerMetrics
	assert.NotPanics(t, func() {
		m.IncJobRun("x")
		m.IncJobError("x", errors.New("boom"))
		m.IncJobSkipped("x", SchedulerSkipReasonLockHeld)
		m.ObserveRunLoopLag(-1)
	})
}
