package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	"github.com/smallbiznis/estate/internal/utility/domain"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Lifecycle billingdomain.Repository
	Billing   *config.BillingConfigHolder `optional:"true"`
	Metrics   *metrics.Metrics            `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	lifecycle billingdomain.Repository
	billing   *config.BillingConfigHolder
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("utility.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		lifecycle: p.Lifecycle,
		billing:   p.Billing,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUtilityBillRequest) (domain.UtilityBill, error) {
	householdID, err := snowflake.ParseString(strings.TrimSpace(req.HouseholdID))
	if err != nil || householdID == 0 {
		return domain.UtilityBill{}, domain.ErrInvalidHouseholdID
	}

	billType := domain.Type(strings.ToLower(strings.TrimSpace(req.Type)))
	if !billType.Valid() {
		return domain.UtilityBill{}, domain.ErrInvalidType
	}

	periodStart, err := billingdomain.ParseDate(req.PeriodStart)
	if err != nil {
		return domain.UtilityBill{}, domain.ErrInvalidPeriod
	}
	periodEnd, err := billingdomain.ParseDate(req.PeriodEnd)
	if err != nil || periodEnd.Before(periodStart) {
		return domain.UtilityBill{}, domain.ErrInvalidPeriod
	}
	dueDate, err := billingdomain.ParseDate(req.DueDate)
	if err != nil {
		return domain.UtilityBill{}, domain.ErrInvalidDueDate
	}

	previous, err := optionalDecimal(req.PreviousReading, domain.ErrInvalidReading)
	if err != nil {
		return domain.UtilityBill{}, err
	}
	current, err := optionalDecimal(req.CurrentReading, domain.ErrInvalidReading)
	if err != nil {
		return domain.UtilityBill{}, err
	}
	rate, err := optionalDecimal(req.Rate, domain.ErrInvalidRate)
	if err != nil {
		return domain.UtilityBill{}, err
	}
	amount, err := optionalDecimal(req.Amount, domain.ErrInvalidAmount)
	if err != nil {
		return domain.UtilityBill{}, err
	}

	usage, total, err := domain.Charge(previous, current, rate, amount)
	if err != nil {
		return domain.UtilityBill{}, err
	}

	exists, err := s.repo.HouseholdExists(ctx, s.db, householdID)
	if err != nil {
		return domain.UtilityBill{}, err
	}
	if !exists {
		return domain.UtilityBill{}, domain.ErrHouseholdNotFound
	}

	now := s.clock.Now().UTC()
	bill := domain.UtilityBill{
		ID:              s.genID.Generate(),
		HouseholdID:     householdID,
		Type:            billType,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		DueDate:         dueDate,
		PreviousReading: previous,
		CurrentReading:  current,
		Usage:           usage,
		Rate:            rate,
		Amount:          total,
		Status:          billingdomain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, s.db, &bill); err != nil {
		return domain.UtilityBill{}, err
	}

	return bill, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.UtilityBill, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.UtilityBill{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.UtilityBill{}, err
	}
	if item == nil {
		return domain.UtilityBill{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUtilityBillRequest) (domain.ListUtilityBillResponse, error) {
	var filter domain.ListUtilityBillFilter
	if raw := strings.TrimSpace(req.HouseholdID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.ListUtilityBillResponse{}, domain.ErrInvalidHouseholdID
		}
		filter.HouseholdID = id
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := billingdomain.Status(strings.ToLower(raw))
		if !status.Valid() {
			return domain.ListUtilityBillResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.Type); raw != "" {
		billType := domain.Type(strings.ToLower(raw))
		if !billType.Valid() {
			return domain.ListUtilityBillResponse{}, domain.ErrInvalidType
		}
		filter.Type = billType
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListUtilityBillResponse{}, err
	}
	items, pageInfo := pagination.Trim(items, page.Size(), func(b *domain.UtilityBill) string {
		return b.ID.String()
	})

	bills := make([]domain.UtilityBill, 0, len(items))
	for _, item := range items {
		bills = append(bills, *item)
	}
	return domain.ListUtilityBillResponse{PageInfo: pageInfo, Bills: bills}, nil
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.UtilityBill, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.UtilityBill{}, err
	}

	now := s.clock.Now()
	paidDate := billingdomain.StartOfDay(now, s.billing.Get().Location())
	if raw := strings.TrimSpace(req.PaidDate); raw != "" {
		if paidDate, err = billingdomain.ParseDate(raw); err != nil {
			return domain.UtilityBill{}, domain.ErrInvalidPaidDate
		}
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.UtilityBill{}, err
	}
	if item == nil {
		return domain.UtilityBill{}, domain.ErrNotFound
	}
	if !billingdomain.CanTransition(item.Status, billingdomain.StatusPaid) {
		return domain.UtilityBill{}, billingdomain.ErrInvalidTransition
	}

	affected, err := s.lifecycle.MarkPaid(ctx, s.db, billingdomain.KindUtilityBills, id, paidDate, now)
	if err != nil {
		return domain.UtilityBill{}, err
	}
	if affected == 0 {
		return domain.UtilityBill{}, billingdomain.ErrInvalidTransition
	}

	s.metrics.RecordPaymentRecorded(ctx, string(billingdomain.KindUtilityBills))
	s.log.Info("utility bill paid",
		zap.String("utility_bill_id", id.String()),
		zap.String("type", string(item.Type)),
	)

	item.Status = billingdomain.StatusPaid
	item.PaidDate = &paidDate
	item.UpdatedAt = now.UTC()
	return *item, nil
}

func (s *Service) parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func optionalDecimal(raw string, invalid error) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, invalid
	}
	return &value, nil
}
