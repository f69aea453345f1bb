package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	billingrepo "github.com/smallbiznis/estate/internal/billing/repository"
	billingservice "github.com/smallbiznis/estate/internal/billing/service"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/utility/domain"
	"github.com/smallbiznis/estate/internal/utility/repository"
	"github.com/smallbiznis/estate/internal/utility/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *clock.FakeClock, domain.Service, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE households (id INTEGER PRIMARY KEY, unit TEXT NOT NULL)`).Error)
	require.NoError(t, db.AutoMigrate(&domain.UtilityBill{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	household := node.Generate()
	require.NoError(t, db.Exec(`INSERT INTO households (id, unit) VALUES (?, ?)`, household, "204").Error)

	clk := clock.NewFakeClock(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	svc := service.New(service.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		Lifecycle: billingrepo.Provide(),
	})
	return db, clk, svc, household
}

func TestCreateUtilityBillComputesCharge(t *testing.T) {
	_, _, svc, household := setup(t)

	bill, err := svc.Create(context.Background(), domain.CreateUtilityBillRequest{
		HouseholdID:     household.String(),
		Type:            "electricity",
		PeriodStart:     "2024-04-01",
		PeriodEnd:       "2024-04-30",
		DueDate:         "2024-05-15",
		PreviousReading: "1000",
		CurrentReading:  "1120",
		Rate:            "0.5",
	})
	require.NoError(t, err)
	assert.Equal(t, billingdomain.StatusPending, bill.Status)
	assert.Equal(t, "120", bill.Usage.String())
	assert.Equal(t, "60", bill.Amount.String())

	stored, err := svc.GetByID(context.Background(), bill.ID.String())
	require.NoError(t, err)
	assert.True(t, bill.Amount.Equal(stored.Amount))
	assert.Equal(t, domain.TypeElectricity, stored.Type)
}

func TestCreateUtilityBillValidation(t *testing.T) {
	_, _, svc, household := setup(t)
	base := domain.CreateUtilityBillRequest{
		HouseholdID: household.String(),
		Type:        "water",
		PeriodStart: "2024-04-01",
		PeriodEnd:   "2024-04-30",
		DueDate:     "2024-05-15",
		Amount:      "20",
	}

	mutate := func(f func(*domain.CreateUtilityBillRequest)) domain.CreateUtilityBillRequest {
		req := base
		f(&req)
		return req
	}

	tests := []struct {
		name string
		req  domain.CreateUtilityBillRequest
		want error
	}{
		{"type", mutate(func(r *domain.CreateUtilityBillRequest) { r.Type = "steam" }), domain.ErrInvalidType},
		{"period order", mutate(func(r *domain.CreateUtilityBillRequest) { r.PeriodEnd = "2024-03-01" }), domain.ErrInvalidPeriod},
		{"due date", mutate(func(r *domain.CreateUtilityBillRequest) { r.DueDate = "" }), domain.ErrInvalidDueDate},
		{"reading", mutate(func(r *domain.CreateUtilityBillRequest) { r.CurrentReading = "abc" }), domain.ErrInvalidReading},
		{"household", mutate(func(r *domain.CreateUtilityBillRequest) { r.HouseholdID = "1" }), domain.ErrHouseholdNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOverdueUtilityBillCanBePaid(t *testing.T) {
	db, clk, svc, household := setup(t)
	ctx := context.Background()

	bill, err := svc.Create(ctx, domain.CreateUtilityBillRequest{
		HouseholdID: household.String(),
		Type:        "internet",
		PeriodStart: "2024-04-01",
		PeriodEnd:   "2024-04-30",
		DueDate:     "2024-05-09",
		Amount:      "25",
	})
	require.NoError(t, err)

	sweeper := billingservice.New(billingservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clk,
		Repo:  billingrepo.Provide(),
	})
	res, err := sweeper.Sweep(ctx, billingdomain.KindUtilityBills)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Count)

	overdue, err := svc.GetByID(ctx, bill.ID.String())
	require.NoError(t, err)
	assert.Equal(t, billingdomain.StatusOverdue, overdue.Status)

	paid, err := svc.RecordPayment(ctx, domain.RecordPaymentRequest{ID: bill.ID.String(), PaidDate: "2024-05-11"})
	require.NoError(t, err)
	assert.Equal(t, billingdomain.StatusPaid, paid.Status)
	assert.Equal(t, time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), *paid.PaidDate)

	listed, err := svc.List(ctx, domain.ListUtilityBillRequest{Status: "paid", Type: "internet"})
	require.NoError(t, err)
	require.Len(t, listed.Bills, 1)
	assert.Equal(t, bill.ID, listed.Bills[0].ID)
}
