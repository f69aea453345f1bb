package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/smallbiznis/estate/internal/config"
	householddomain "github.com/smallbiznis/estate/internal/household/domain"
	"github.com/smallbiznis/estate/internal/observability"
	obsmiddleware "github.com/smallbiznis/estate/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/estate/internal/observability/metrics"
	obstracing "github.com/smallbiznis/estate/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	searchdomain "github.com/smallbiznis/estate/internal/search/domain"
	utilitydomain "github.com/smallbiznis/estate/internal/utility/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.String("addr", addr), zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	billingSvc   billingdomain.Service
	paymentSvc   paymentdomain.Service
	utilitySvc   utilitydomain.Service
	householdSvc householddomain.Service
	searchSvc    searchdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	BillingSvc   billingdomain.Service
	PaymentSvc   paymentdomain.Service
	UtilitySvc   utilitydomain.Service
	HouseholdSvc householddomain.Service
	SearchSvc    searchdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		billingSvc:   p.BillingSvc,
		paymentSvc:   p.PaymentSvc,
		utilitySvc:   p.UtilitySvc,
		householdSvc: p.HouseholdSvc,
		searchSvc:    p.SearchSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Overdue sweeps --------
	api.POST("/payments/update-overdue", s.UpdateOverduePayments)
	api.GET("/payments/update-overdue", s.UpdateOverduePayments)
	api.POST("/utilities/update-overdue", s.UpdateOverdueUtilities)
	api.GET("/utilities/update-overdue", s.UpdateOverdueUtilities)

	// -------- Households --------
	api.GET("/households", s.ListHouseholds)
	api.POST("/households", s.CreateHousehold)
	api.GET("/households/:id", s.GetHouseholdByID)
	api.GET("/households/:id/balance", s.GetHouseholdBalance)
	api.GET("/households/:id/statement", s.GetHouseholdStatement)
	api.GET("/households/:id/members", s.ListHouseholdMembers)
	api.POST("/households/:id/members", s.AddHouseholdMember)
	api.GET("/households/:id/parking-slots", s.ListParkingSlots)
	api.POST("/households/:id/parking-slots", s.AddParkingSlot)

	// -------- Fee categories --------
	api.GET("/fee-categories", s.ListFeeCategories)
	api.POST("/fee-categories", s.CreateFeeCategory)

	// -------- Payments --------
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.CreatePayment)
	api.GET("/payments/:id", s.GetPaymentByID)
	api.POST("/payments/:id/pay", s.RecordPayment)

	// -------- Utility bills --------
	api.GET("/utilities", s.ListUtilityBills)
	api.POST("/utilities", s.CreateUtilityBill)
	api.GET("/utilities/:id", s.GetUtilityBillByID)
	api.POST("/utilities/:id/pay", s.RecordUtilityPayment)

	// -------- Search --------
	api.GET("/search", s.Search)
}
