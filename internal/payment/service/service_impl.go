package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	"github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/pkg/db"
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
		log:       p.Log.Named("payment.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		lifecycle: p.Lifecycle,
		billing:   p.Billing,
		metrics:   p.Metrics,
	}
}

func (s *Service) CreateFeeCategory(ctx context.Context, req domain.CreateFeeCategoryRequest) (domain.FeeCategory, error) {
	name := strings.TrimSpace(req.Name)
	code := slug.Make(name)
	if name == "" || code == "" {
		return domain.FeeCategory{}, domain.ErrInvalidName
	}

	amount := decimal.Zero
	if raw := strings.TrimSpace(req.DefaultAmount); raw != "" {
		parsed, err := parseAmount(raw)
		if err != nil {
			return domain.FeeCategory{}, err
		}
		amount = parsed
	}

	frequency := domain.Frequency(strings.ToLower(strings.TrimSpace(req.Frequency)))
	if frequency == "" {
		frequency = domain.FrequencyMonthly
	}
	if !frequency.Valid() {
		return domain.FeeCategory{}, domain.ErrInvalidFrequency
	}

	category := domain.FeeCategory{
		ID:            s.genID.Generate(),
		Code:          code,
		Name:          name,
		DefaultAmount: amount,
		Frequency:     frequency,
		CreatedAt:     s.clock.Now().UTC(),
	}
	if err := s.repo.InsertFeeCategory(ctx, s.db, &category); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.FeeCategory{}, domain.ErrDuplicateCode
		}
		return domain.FeeCategory{}, err
	}

	return category, nil
}

func (s *Service) ListFeeCategories(ctx context.Context) ([]domain.FeeCategory, error) {
	items, err := s.repo.ListFeeCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.FeeCategory, 0, len(items))
	for _, item := range items {
		categories = append(categories, *item)
	}
	return categories, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.Payment, error) {
	householdID, err := snowflake.ParseString(strings.TrimSpace(req.HouseholdID))
	if err != nil || householdID == 0 {
		return domain.Payment{}, domain.ErrInvalidHouseholdID
	}

	var feeCategoryID *snowflake.ID
	if raw := strings.TrimSpace(req.FeeCategoryID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.Payment{}, domain.ErrInvalidFeeCategoryID
		}
		feeCategoryID = &id
	}

	var amount decimal.Decimal
	amountSet := strings.TrimSpace(req.Amount) != ""
	if amountSet {
		amount, err = parseAmount(req.Amount)
		if err != nil {
			return domain.Payment{}, err
		}
	} else if feeCategoryID == nil {
		return domain.Payment{}, domain.ErrInvalidAmount
	}

	dueDate, err := billingdomain.ParseDate(req.DueDate)
	if err != nil {
		return domain.Payment{}, domain.ErrInvalidDueDate
	}

	exists, err := s.repo.HouseholdExists(ctx, s.db, householdID)
	if err != nil {
		return domain.Payment{}, err
	}
	if !exists {
		return domain.Payment{}, domain.ErrHouseholdNotFound
	}

	if feeCategoryID != nil {
		category, err := s.repo.FindFeeCategoryByID(ctx, s.db, *feeCategoryID)
		if err != nil {
			return domain.Payment{}, err
		}
		if category == nil {
			return domain.Payment{}, domain.ErrFeeCategoryNotFound
		}
		if !amountSet {
			amount = category.DefaultAmount
		}
	}

	now := s.clock.Now().UTC()
	payment := domain.Payment{
		ID:            s.genID.Generate(),
		HouseholdID:   householdID,
		FeeCategoryID: feeCategoryID,
		Amount:        amount,
		DueDate:       dueDate,
		Status:        billingdomain.StatusPending,
		Note:          strings.TrimSpace(req.Note),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}

	return payment, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Payment, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Payment{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	var filter domain.ListPaymentFilter
	if raw := strings.TrimSpace(req.HouseholdID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.ListPaymentResponse{}, domain.ErrInvalidHouseholdID
		}
		filter.HouseholdID = id
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := billingdomain.Status(strings.ToLower(raw))
		if !status.Valid() {
			return domain.ListPaymentResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	items, pageInfo := pagination.Trim(items, page.Size(), func(p *domain.Payment) string {
		return p.ID.String()
	})

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		payments = append(payments, *item)
	}
	return domain.ListPaymentResponse{PageInfo: pageInfo, Payments: payments}, nil
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.Payment, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Payment{}, err
	}

	now := s.clock.Now()
	paidDate := billingdomain.StartOfDay(now, s.billing.Get().Location())
	if raw := strings.TrimSpace(req.PaidDate); raw != "" {
		paidDate, err = billingdomain.ParseDate(raw)
		if err != nil {
			return domain.Payment{}, domain.ErrInvalidPaidDate
		}
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	if !billingdomain.CanTransition(item.Status, billingdomain.StatusPaid) {
		return domain.Payment{}, billingdomain.ErrInvalidTransition
	}

	affected, err := s.lifecycle.MarkPaid(ctx, s.db, billingdomain.KindPayments, id, paidDate, now)
	if err != nil {
		return domain.Payment{}, err
	}
	if affected == 0 {
		// Another request settled it between the read and the write.
		return domain.Payment{}, billingdomain.ErrInvalidTransition
	}

	s.metrics.RecordPaymentRecorded(ctx, string(billingdomain.KindPayments))
	s.log.Info("payment recorded",
		zap.String("payment_id", id.String()),
		zap.String("household_id", item.HouseholdID.String()),
		zap.String("paid_date", paidDate.Format(time.DateOnly)),
	)

	item.Status = billingdomain.StatusPaid
	item.PaidDate = &paidDate
	item.UpdatedAt = now.UTC()
	return *item, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return amount.Round(2), nil
}
