package service

import (
	"context"
	"strings"
	"unicode/utf8"

	obslogger "github.com/smallbiznis/estate/internal/observability/logger"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	"github.com/smallbiznis/estate/internal/observability/tracing"
	"github.com/smallbiznis/estate/internal/search/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("search.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

type branch struct {
	source  string
	results []domain.Result
	err     error
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.Result, error) {
	term := strings.TrimSpace(query)
	if utf8.RuneCountInString(term) < domain.MinQueryLength {
		s.metrics.RecordSearch(ctx, "short")
		return []domain.Result{}, nil
	}

	ctx, span := tracing.StartSpan(ctx, "search.query")
	defer span.End()

	branches := []*branch{{source: "households"}, {source: "members"}, {source: "parking"}}

	// Branch errors are kept per branch so one failure never cancels the
	// others.
	var g errgroup.Group
	g.Go(func() error {
		hits, err := s.repo.SearchHouseholds(ctx, s.db, term, domain.SourceLimit)
		branches[0].err = err
		for _, hit := range hits {
			branches[0].results = append(branches[0].results, hit.Result())
		}
		return nil
	})
	g.Go(func() error {
		hits, err := s.repo.SearchMembers(ctx, s.db, term, domain.SourceLimit)
		branches[1].err = err
		for _, hit := range hits {
			branches[1].results = append(branches[1].results, hit.Result())
		}
		return nil
	})
	g.Go(func() error {
		hits, err := s.repo.SearchParking(ctx, s.db, term, domain.SourceLimit)
		branches[2].err = err
		for _, hit := range hits {
			branches[2].results = append(branches[2].results, hit.Result())
		}
		return nil
	})
	_ = g.Wait()

	log := obslogger.WithContext(ctx, s.log)
	results := make([]domain.Result, 0, domain.MaxResults)
	failed := 0
	for _, b := range branches {
		if b.err != nil {
			failed++
			log.Warn("search source failed", zap.String("source", b.source), zap.Error(b.err))
			continue
		}
		results = append(results, capResults(b.results, domain.SourceLimit)...)
	}

	span.SetAttributes(attribute.Int("failed_sources", failed))
	switch {
	case failed == len(branches):
		s.metrics.RecordSearch(ctx, "failed")
		return nil, domain.ErrSearchUnavailable
	case failed > 0:
		s.metrics.RecordSearch(ctx, "partial")
	default:
		s.metrics.RecordSearch(ctx, "ok")
	}

	return capResults(results, domain.MaxResults), nil
}

func capResults(results []domain.Result, limit int) []domain.Result {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}
