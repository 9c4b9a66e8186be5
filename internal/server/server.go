package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	catalogdomain "github.com/fieldserve/contractbill/internal/catalog/domain"
	"github.com/fieldserve/contractbill/internal/config"
	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
	obsmiddleware "github.com/fieldserve/contractbill/internal/observability/logger"
	obsmetrics "github.com/fieldserve/contractbill/internal/observability/metrics"
	taxdomain "github.com/fieldserve/contractbill/internal/tax/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, registry *prometheus.Registry, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log.Named("http")))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, registry *prometheus.Registry, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, registry, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
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
	draftSvc   draftdomain.Service
	catalogSvc catalogdomain.Service
	taxSvc     taxdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DraftSvc   draftdomain.Service
	CatalogSvc catalogdomain.Service
	TaxSvc     taxdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		draftSvc:   p.DraftSvc,
		catalogSvc: p.CatalogSvc,
		taxSvc:     p.TaxSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Drafts --------
	api.GET("/drafts", s.ListDrafts)
	api.POST("/drafts", s.CreateDraft)
	api.GET("/drafts/:id", s.GetDraftByID)
	api.PATCH("/drafts/:id", s.UpdateDraft)
	api.DELETE("/drafts/:id", s.DeleteDraft)

	// -------- Coverage types --------
	api.GET("/drafts/:id/coverage-types", s.ListCoverageTypes)
	api.POST("/drafts/:id/coverage-types", s.AddCoverageType)
	api.DELETE("/drafts/:id/coverage-types/:groupId", s.RemoveCoverageType)

	// -------- Blocks --------
	api.GET("/drafts/:id/blocks", s.ListBlocks)
	api.POST("/drafts/:id/blocks/toggle", s.ToggleAttachBlock)
	api.POST("/drafts/:id/blocks/flyby", s.InsertFlyByBlock)
	api.PATCH("/drafts/:id/blocks/:blockId", s.UpdateBlock)
	api.DELETE("/drafts/:id/blocks/:blockId", s.RemoveBlock)
	api.POST("/drafts/:id/blocks/move", s.MoveBlock)

	// -------- Derived views --------
	api.GET("/drafts/:id/totals", s.GetDraftTotals)
	api.GET("/drafts/:id/group-stats", s.GetDraftGroupStats)
	api.GET("/drafts/:id/payment-plan", s.GetDraftPaymentPlan)

	// -------- Catalog --------
	api.GET("/catalog/blocks", s.ListCatalogBlocks)
	api.POST("/catalog/blocks", s.CreateCatalogBlock)
	api.GET("/catalog/blocks/:id", s.GetCatalogBlockByID)

	// -------- Tax components --------
	api.GET("/tax-components", s.ListTaxComponents)
	api.POST("/tax-components", s.CreateTaxComponent)
	api.POST("/tax-components/:id/disable", s.DisableTaxComponent)
}
