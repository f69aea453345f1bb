package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	billingrepo "github.com/smallbiznis/estate/internal/billing/repository"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/internal/payment/repository"
	"github.com/smallbiznis/estate/internal/payment/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	clock     *clock.FakeClock
	svc       domain.Service
	household snowflake.ID
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE households (id INTEGER PRIMARY KEY, unit TEXT NOT NULL)`).Error)
	require.NoError(t, db.AutoMigrate(&domain.FeeCategory{}, &domain.Payment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	household := node.Generate()
	require.NoError(t, db.Exec(`INSERT INTO households (id, unit) VALUES (?, ?)`, household, "101").Error)

	clk := clock.NewFakeClock(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	svc := service.New(service.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		Lifecycle: billingrepo.Provide(),
	})

	return fixture{db: db, node: node, clock: clk, svc: svc, household: household}
}

func TestCreatePaymentStartsPending(t *testing.T) {
	f := setup(t)

	payment, err := f.svc.Create(context.Background(), domain.CreatePaymentRequest{
		HouseholdID: f.household.String(),
		Amount:      "50.00",
		DueDate:     "2024-05-31",
	})
	require.NoError(t, err)

	assert.Equal(t, billingdomain.StatusPending, payment.Status)
	assert.Nil(t, payment.PaidDate)
	assert.True(t, decimal.RequireFromString("50").Equal(payment.Amount))

	stored, err := f.svc.GetByID(context.Background(), payment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, billingdomain.StatusPending, stored.Status)
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), stored.DueDate.UTC())
}

func TestCreatePaymentRoundsToCents(t *testing.T) {
	f := setup(t)

	payment, err := f.svc.Create(context.Background(), domain.CreatePaymentRequest{
		HouseholdID: f.household.String(),
		Amount:      "10.005",
		DueDate:     "2024-05-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "10.01", payment.Amount.StringFixed(2))
	assert.True(t, decimal.RequireFromString("10.01").Equal(payment.Amount))

	stored, err := f.svc.GetByID(context.Background(), payment.ID.String())
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(stored.Amount))
}

func TestCreatePaymentValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.CreatePaymentRequest
		want error
	}{
		{"bad household", domain.CreatePaymentRequest{HouseholdID: "x", Amount: "1", DueDate: "2024-05-01"}, domain.ErrInvalidHouseholdID},
		{"negative amount", domain.CreatePaymentRequest{HouseholdID: f.household.String(), Amount: "-1", DueDate: "2024-05-01"}, domain.ErrInvalidAmount},
		{"no amount no category", domain.CreatePaymentRequest{HouseholdID: f.household.String(), DueDate: "2024-05-01"}, domain.ErrInvalidAmount},
		{"bad due date", domain.CreatePaymentRequest{HouseholdID: f.household.String(), Amount: "1", DueDate: "May 1"}, domain.ErrInvalidDueDate},
		{"unknown household", domain.CreatePaymentRequest{HouseholdID: f.node.Generate().String(), Amount: "1", DueDate: "2024-05-01"}, domain.ErrHouseholdNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreatePaymentUsesCategoryDefault(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	category, err := f.svc.CreateFeeCategory(ctx, domain.CreateFeeCategoryRequest{
		Name:          "Maintenance Fee",
		DefaultAmount: "75.50",
	})
	require.NoError(t, err)
	assert.Equal(t, "maintenance-fee", category.Code)
	assert.Equal(t, domain.FrequencyMonthly, category.Frequency)

	payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		HouseholdID:   f.household.String(),
		FeeCategoryID: category.ID.String(),
		DueDate:       "2024-06-01",
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("75.50").Equal(payment.Amount))

	_, err = f.svc.CreateFeeCategory(ctx, domain.CreateFeeCategoryRequest{Name: "maintenance fee"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestRecordPaymentTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		HouseholdID: f.household.String(),
		Amount:      "30",
		DueDate:     "2024-05-01",
	})
	require.NoError(t, err)

	paid, err := f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{ID: payment.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, billingdomain.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), *paid.PaidDate)

	stored, err := f.svc.GetByID(ctx, payment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, billingdomain.StatusPaid, stored.Status)
	require.NotNil(t, stored.PaidDate)

	_, err = f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{ID: payment.ID.String()})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidTransition)
}

func TestRecordPaymentErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{ID: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{ID: f.node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPaymentsFiltersAndPages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
			HouseholdID: f.household.String(),
			Amount:      "10",
			DueDate:     "2024-05-01",
		})
		require.NoError(t, err)
	}

	first, err := f.svc.List(ctx, domain.ListPaymentRequest{HouseholdID: f.household.String(), PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, first.Payments, 2)
	assert.True(t, first.HasMore)

	second, err := f.svc.List(ctx, domain.ListPaymentRequest{
		HouseholdID: f.household.String(),
		PageSize:    2,
		PageToken:   first.NextPageToken,
	})
	require.NoError(t, err)
	assert.Len(t, second.Payments, 1)
	assert.False(t, second.HasMore)

	paid, err := f.svc.List(ctx, domain.ListPaymentRequest{Status: "paid"})
	require.NoError(t, err)
	assert.Empty(t, paid.Payments)

	_, err = f.svc.List(ctx, domain.ListPaymentRequest{Status: "late"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
