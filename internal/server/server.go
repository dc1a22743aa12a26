package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	admindomain "github.com/smallbiznis/feedbackrelay/internal/admin/domain"
	auditdomain "github.com/smallbiznis/feedbackrelay/internal/audit/domain"
	catalogdomain "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/config"
	directorydomain "github.com/smallbiznis/feedbackrelay/internal/directory/domain"
	interactiondomain "github.com/smallbiznis/feedbackrelay/internal/interaction/domain"
	"github.com/smallbiznis/feedbackrelay/internal/observability"
	obslogger "github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/feedbackrelay/internal/observability/metrics"
	obstracing "github.com/smallbiznis/feedbackrelay/internal/observability/tracing"
	"github.com/smallbiznis/feedbackrelay/internal/ratelimit"
	webhookdomain "github.com/smallbiznis/feedbackrelay/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxBodyBytes bounds every inbound body read by the relay routes.
const maxBodyBytes = 1 << 20

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware(obstracing.MiddlewareConfig{SkipPaths: obsCfg.TraceSkipPaths}))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	clock  clock.Clock

	webhookSvc     webhookdomain.Service
	interactionSvc interactiondomain.Service
	catalogSvc     catalogdomain.Service
	directorySvc   directorydomain.Service
	adminSvc       admindomain.Service
	auditSvc       auditdomain.Service

	webhookLimiter *ratelimit.WebhookLimiter
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	Clock clock.Clock

	WebhookSvc     webhookdomain.Service
	InteractionSvc interactiondomain.Service
	CatalogSvc     catalogdomain.Service
	DirectorySvc   directorydomain.Service
	AdminSvc       admindomain.Service
	AuditSvc       auditdomain.Service

	WebhookLimiter *ratelimit.WebhookLimiter `optional:"true"`
	ObsMetrics     *obsmetrics.Metrics       `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		clock:          p.Clock,
		webhookSvc:     p.WebhookSvc,
		interactionSvc: p.InteractionSvc,
		catalogSvc:     p.CatalogSvc,
		directorySvc:   p.DirectorySvc,
		adminSvc:       p.AdminSvc,
		auditSvc:       p.AuditSvc,
		webhookLimiter: p.WebhookLimiter,
		obsMetrics:     p.ObsMetrics,
	}
	if svc.clock == nil {
		svc.clock = clock.New()
	}

	svc.registerHealthRoutes()
	svc.registerWebhookRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHealthRoutes() {
	s.engine.GET("/health", s.Health)
}

func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/webhooks/ashby", s.WebhookRateLimit(), s.HandleAshbyWebhook)
	s.engine.POST("/slack/interactions", s.HandleSlackInteraction)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AdminAuth())

	admin.POST("/sync-forms", s.SyncForms)
	admin.POST("/sync-interviews", s.SyncInterviews)
	admin.POST("/sync-slack-users", s.SyncSlackUsers)
	admin.GET("/stats", s.GetStats)
	admin.GET("/webhooks", s.ListWebhookPayloads)
}
