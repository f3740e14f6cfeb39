package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/paygate/docs"
	"github.com/fatflowers/paygate/internal/app/api/handlers"
	mw "github.com/fatflowers/paygate/internal/app/api/middleware"
	"github.com/fatflowers/paygate/internal/app/service/payment"
	"github.com/fatflowers/paygate/internal/app/service/statistics"
	cfgpkg "github.com/fatflowers/paygate/pkg/config"
	"github.com/fatflowers/paygate/pkg/idempotency"
	metrics "github.com/fatflowers/paygate/pkg/metrics"
)

func newEngine() *gin.Engine {
	handlers.UseJSONFieldNames()
	r := gin.New()
	r.Use(gin.Recovery())
	// request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeParams struct {
	fx.In

	Engine      *gin.Engine
	Log         *zap.SugaredLogger
	Cfg         *cfgpkg.Config
	DB          *gorm.DB
	Payments    payment.Engine
	Idempotency idempotency.Store
	Stats       *statistics.Service
	Prometheus  *metrics.Prometheus
}

func registerRoutes(p routeParams) {
	r, log, cfg := p.Engine, p.Log, p.Cfg
	if cfg.MetricsAddr != "" {
		p.Prometheus.Use(r)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub, p.DB)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterPaymentRoutes(apiV1, handlers.PaymentRoutes{
		Engine:         p.Payments,
		Idempotency:    p.Idempotency,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Callback:       mw.CallbackAuthMiddleware(cfg.Callback.JWTSecret, log),
		Log:            log,
	})
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), p.Stats, log)
}

func serve(log *zap.SugaredLogger, name string, srv *http.Server) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server error", "server", name, "addr", srv.Addr, "error", err)
		}
	}()
}

func runServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine, p *metrics.Prometheus) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	// metrics are served on a separate listener
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mr := gin.New()
		mr.Use(gin.Recovery())
		mr.GET(p.MetricsPath, p.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mr, ReadHeaderTimeout: 5 * time.Second}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			if metricsSrv != nil {
				log.Infow("metrics started", "addr", cfg.MetricsAddr, "path", p.MetricsPath)
				serve(log, "metrics", metricsSrv)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			if metricsSrv != nil {
				if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
					log.Warnw("metrics server shutdown failed", "error", err)
				}
			}
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
