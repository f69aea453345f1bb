package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	obscontext "github.com/smallbiznis/estate/internal/observability/context"
	obslogger "github.com/smallbiznis/estate/internal/observability/logger"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	"github.com/smallbiznis/estate/internal/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	triggerScheduler = "scheduler"
	triggerHTTP      = "http"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Repo    domain.Repository
	Billing *config.BillingConfigHolder `optional:"true"`
	Metrics *metrics.Metrics            `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	repo    domain.Repository
	billing *config.BillingConfigHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("billing.service"),
		clock:   clk,
		repo:    p.Repo,
		billing: p.Billing,
		metrics: p.Metrics,
	}
}

func (s *Service) Sweep(ctx context.Context, kind domain.Kind) (domain.SweepResult, error) {
	return s.SweepAsOf(ctx, kind, s.clock.Now())
}

func (s *Service) SweepAsOf(ctx context.Context, kind domain.Kind, asOf time.Time) (domain.SweepResult, error) {
	if !kind.Valid() {
		return domain.SweepResult{}, domain.ErrInvalidKind
	}

	today := domain.StartOfDay(asOf, s.billing.Get().Location())
	trigger := triggerFromContext(ctx)

	ctx, span := tracing.StartSpan(ctx, "billing.sweep_overdue",
		attribute.String("kind", string(kind)),
		attribute.String("trigger", trigger),
	)
	defer span.End()

	log := obslogger.WithContext(ctx, s.log).With(
		zap.String("kind", string(kind)),
		zap.String("today", today.Format(time.DateOnly)),
		zap.String("trigger", trigger),
	)

	count, err := s.repo.MarkOverdue(ctx, s.db, kind, today, s.clock.Now())
	if err != nil {
		span.RecordError(tracing.SafeError(err))
		span.SetStatus(codes.Error, "sweep failed")
		log.Error("overdue sweep failed", zap.Error(err))
		return domain.SweepResult{}, fmt.Errorf("%w: sweep %s: %w", domain.ErrStoreUnavailable, kind, err)
	}

	span.SetAttributes(attribute.Int64("count", count))
	s.metrics.RecordOverdueTransitions(ctx, string(kind), trigger, count)
	log.Info("overdue sweep finished", zap.Int64("count", count))

	return domain.SweepResult{Kind: kind, Today: today, Count: count}, nil
}

func triggerFromContext(ctx context.Context) string {
	if actorType, _ := obscontext.ActorFromContext(ctx); actorType == "system" {
		return triggerScheduler
	}
	return triggerHTTP
}
