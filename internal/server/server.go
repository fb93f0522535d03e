package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/craftline/projectledger/internal/actor"
	"github.com/craftline/projectledger/internal/config"
	"github.com/craftline/projectledger/internal/incentive"
	incentivedomain "github.com/craftline/projectledger/internal/incentive/domain"
	"github.com/craftline/projectledger/internal/locking"
	"github.com/craftline/projectledger/internal/observability"
	obsmiddleware "github.com/craftline/projectledger/internal/observability/logger"
	obsmetrics "github.com/craftline/projectledger/internal/observability/metrics"
	obstracing "github.com/craftline/projectledger/internal/observability/tracing"
	"github.com/craftline/projectledger/internal/payment"
	paymentdomain "github.com/craftline/projectledger/internal/payment/domain"
	"github.com/craftline/projectledger/internal/project"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/craftline/projectledger/internal/receipt"
	receiptdomain "github.com/craftline/projectledger/internal/receipt/domain"
	"github.com/craftline/projectledger/internal/reconcile"
	"github.com/craftline/projectledger/internal/wallet"
	walletdomain "github.com/craftline/projectledger/internal/wallet/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	actor.Module,
	locking.Module,
	reconcile.Module,
	project.Module,
	receipt.Module,
	incentive.Module,
	payment.Module,
	wallet.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
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
	r.Use(ActorMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    net.JoinHostPort("", cfg.HTTPPort),
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
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
	engine     *gin.Engine
	cfg        config.Config
	projectSvc projectdomain.Service
	receiptSvc receiptdomain.Service
	walletSvc  walletdomain.Service
	paymentSvc paymentdomain.Service
	incentives incentivedomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	ProjectSvc projectdomain.Service
	ReceiptSvc receiptdomain.Service
	WalletSvc  walletdomain.Service
	PaymentSvc paymentdomain.Service
	Incentives incentivedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		projectSvc: p.ProjectSvc,
		receiptSvc: p.ReceiptSvc,
		walletSvc:  p.WalletSvc,
		paymentSvc: p.PaymentSvc,
		incentives: p.Incentives,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Projects --------
	api.POST("/projects", s.CreateProject)
	api.GET("/projects/:id", s.GetProject)
	api.POST("/projects/:id/recalculate", s.RecalculateProject)

	// -------- Installment plan --------
	api.POST("/projects/:id/installments", s.AddInstallments)
	api.PATCH("/projects/:id/installments/:installmentId", s.UpdateInstallment)
	api.DELETE("/projects/:id/installments/:installmentId", s.DeleteInstallment)

	// -------- Cost revisions --------
	api.PUT("/projects/:id/cost", s.ReviseCost)
	api.GET("/projects/:id/cost-history", s.ListCostRevisions)

	// -------- Receipts --------
	api.POST("/receipts", s.CreateReceipt)
	api.GET("/projects/:id/receipts", s.ListProjectReceipts)
	api.POST("/receipts/:id/approve", s.ApproveReceipt)
	api.POST("/receipts/:id/reject", s.RejectReceipt)

	// -------- Payments --------
	api.POST("/payments", s.RecordPayment)

	// -------- Incentives --------
	api.POST("/incentives", s.GrantIncentive)

	// -------- Wallet --------
	api.GET("/clients/:id/wallet", s.GetClientWallet)
}
