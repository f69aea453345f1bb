package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/household/domain"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	"github.com/smallbiznis/estate/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/internal/providers/pdf"
	"github.com/smallbiznis/estate/pkg/db"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Repo     domain.Repository
	Payments paymentdomain.Repository
	PDF      pdf.Provider                `optional:"true"`
	Billing  *config.BillingConfigHolder `optional:"true"`
	Metrics  *metrics.Metrics            `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	appName  string
	repo     domain.Repository
	payments paymentdomain.Repository
	pdf      pdf.Provider
	billing  *config.BillingConfigHolder
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	provider := p.PDF
	if provider == nil {
		provider = pdf.New()
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("household.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		appName:  p.Cfg.AppName,
		repo:     p.Repo,
		payments: p.Payments,
		pdf:      provider,
		billing:  p.Billing,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateHouseholdRequest) (domain.Household, error) {
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		return domain.Household{}, domain.ErrInvalidUnit
	}
	ownerName := strings.TrimSpace(req.OwnerName)
	if ownerName == "" {
		return domain.Household{}, domain.ErrInvalidOwnerName
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.Household{}, domain.ErrInvalidEmail
	}

	status := domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return domain.Household{}, domain.ErrInvalidStatus
	}

	var area *decimal.Decimal
	if raw := strings.TrimSpace(req.Area); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || !parsed.IsPositive() {
			return domain.Household{}, domain.ErrInvalidArea
		}
		area = &parsed
	}

	var moveIn *time.Time
	if raw := strings.TrimSpace(req.MoveInDate); raw != "" {
		parsed, err := billingdomain.ParseDate(raw)
		if err != nil {
			return domain.Household{}, domain.ErrInvalidMoveInDate
		}
		moveIn = &parsed
	}

	metadata := datatypes.JSONMap{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	now := s.clock.Now().UTC()
	household := domain.Household{
		ID:         s.genID.Generate(),
		Unit:       unit,
		OwnerName:  ownerName,
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		Status:     status,
		Area:       area,
		Floor:      req.Floor,
		MoveInDate: moveIn,
		Metadata:   metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, &household); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Household{}, domain.ErrDuplicateUnit
		}
		return domain.Household{}, err
	}

	return household, nil
}

func (s *Service) List(ctx context.Context, req domain.ListHouseholdRequest) (domain.ListHouseholdResponse, error) {
	status := domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if status != "" && !status.Valid() {
		return domain.ListHouseholdResponse{}, domain.ErrInvalidStatus
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, status, page)
	if err != nil {
		return domain.ListHouseholdResponse{}, err
	}
	items, pageInfo := pagination.Trim(items, page.Size(), func(h *domain.Household) string {
		return h.ID.String()
	})

	households := make([]domain.Household, 0, len(items))
	for _, item := range items {
		households = append(households, *item)
	}
	return domain.ListHouseholdResponse{PageInfo: pageInfo, Households: households}, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.HouseholdDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "household.get")
	defer span.End()

	household, err := s.load(ctx, rawID)
	if err != nil {
		return domain.HouseholdDetail{}, err
	}

	residents, err := s.repo.CountMembers(ctx, s.db, household.ID)
	if err != nil {
		return domain.HouseholdDetail{}, err
	}
	payments, err := s.householdPayments(ctx, household.ID)
	if err != nil {
		return domain.HouseholdDetail{}, err
	}

	s.metrics.RecordBalanceRead(ctx)
	span.SetAttributes(attribute.Int64("residents", residents))

	return domain.HouseholdDetail{
		Household: *household,
		Residents: residents,
		Balance:   domain.ComputeBalance(payments),
	}, nil
}

func (s *Service) GetBalance(ctx context.Context, rawID string) (domain.BalanceResponse, error) {
	household, err := s.load(ctx, rawID)
	if err != nil {
		return domain.BalanceResponse{}, err
	}
	payments, err := s.householdPayments(ctx, household.ID)
	if err != nil {
		return domain.BalanceResponse{}, err
	}

	billing := s.billing.Get()
	today := billingdomain.StartOfDay(s.clock.Now(), billing.Location())
	s.metrics.RecordBalanceRead(ctx)

	return domain.BalanceResponse{
		HouseholdID: household.ID.String(),
		AsOf:        today,
		Balance:     domain.ComputeBalance(payments),
		Aging:       domain.AgeOutstanding(payments, today, billing.AgingBuckets),
	}, nil
}

func (s *Service) Statement(ctx context.Context, rawID string) (domain.Statement, error) {
	household, err := s.load(ctx, rawID)
	if err != nil {
		return domain.Statement{}, err
	}
	payments, err := s.householdPayments(ctx, household.ID)
	if err != nil {
		return domain.Statement{}, err
	}

	billing := s.billing.Get()
	today := billingdomain.StartOfDay(s.clock.Now(), billing.Location())

	data := pdf.StatementData{
		EstateName: s.appName,
		Unit:       household.Unit,
		OwnerName:  household.OwnerName,
		Email:      household.Email,
		Phone:      household.Phone,
		IssueDate:  today.Format(time.DateOnly),
		Balance:    domain.ComputeBalance(payments).StringFixed(2),
	}
	for _, p := range payments {
		if !p.Status.Outstanding() {
			continue
		}
		description := "Payment"
		if p.Note != "" {
			description = p.Note
		}
		data.Lines = append(data.Lines, pdf.StatementLine{
			Description: description,
			DueDate:     p.DueDate.Format(time.DateOnly),
			Status:      string(p.Status),
			Amount:      p.Amount.StringFixed(2),
		})
	}
	for _, line := range domain.AgeOutstanding(payments, today, billing.AgingBuckets) {
		data.Aging = append(data.Aging, pdf.StatementAging{Label: line.Label, Amount: line.Amount.StringFixed(2)})
	}

	content, err := s.pdf.GenerateStatement(ctx, data)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("generate statement: %w", err)
	}

	return domain.Statement{
		FileName: fmt.Sprintf("statement-%s-%s.pdf", household.Unit, today.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *Service) AddMember(ctx context.Context, req domain.AddMemberRequest) (domain.Member, error) {
	household, err := s.load(ctx, req.HouseholdID)
	if err != nil {
		return domain.Member{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Member{}, domain.ErrInvalidName
	}

	member := domain.Member{
		ID:           s.genID.Generate(),
		HouseholdID:  household.ID,
		Name:         name,
		IDNumber:     strings.TrimSpace(req.IDNumber),
		Relationship: strings.TrimSpace(req.Relationship),
		Phone:        strings.TrimSpace(req.Phone),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.repo.InsertMember(ctx, s.db, &member); err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context, rawID string) ([]domain.Member, error) {
	household, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListMembers(ctx, s.db, household.ID)
	if err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(items))
	for _, item := range items {
		members = append(members, *item)
	}
	return members, nil
}

func (s *Service) AddParkingSlot(ctx context.Context, req domain.AddParkingSlotRequest) (domain.ParkingSlot, error) {
	household, err := s.load(ctx, req.HouseholdID)
	if err != nil {
		return domain.ParkingSlot{}, err
	}
	slotNumber := strings.TrimSpace(req.SlotNumber)
	if slotNumber == "" {
		return domain.ParkingSlot{}, domain.ErrInvalidSlotNumber
	}

	slot := domain.ParkingSlot{
		ID:           s.genID.Generate(),
		HouseholdID:  household.ID,
		SlotNumber:   slotNumber,
		LicensePlate: strings.ToUpper(strings.TrimSpace(req.LicensePlate)),
		VehicleType:  strings.TrimSpace(req.VehicleType),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.repo.InsertParkingSlot(ctx, s.db, &slot); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ParkingSlot{}, domain.ErrDuplicateSlot
		}
		return domain.ParkingSlot{}, err
	}
	return slot, nil
}

func (s *Service) ListParkingSlots(ctx context.Context, rawID string) ([]domain.ParkingSlot, error) {
	household, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListParkingSlots(ctx, s.db, household.ID)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.ParkingSlot, 0, len(items))
	for _, item := range items {
		slots = append(slots, *item)
	}
	return slots, nil
}

func (s *Service) load(ctx context.Context, rawID string) (*domain.Household, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	household, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, domain.ErrNotFound
	}
	return household, nil
}

func (s *Service) householdPayments(ctx context.Context, householdID snowflake.ID) ([]paymentdomain.Payment, error) {
	items, err := s.payments.ListByHousehold(ctx, s.db, householdID)
	if err != nil {
		return nil, err
	}
	payments := make([]paymentdomain.Payment, 0, len(items))
	for _, item := range items {
		payments = append(payments, *item)
	}
	return payments, nil
}
