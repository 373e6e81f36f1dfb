package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/DishIs/temp-mail-sub000/docs"
	"github.com/DishIs/temp-mail-sub000/internal/app/api/handlers"
	mw "github.com/DishIs/temp-mail-sub000/internal/app/api/middleware"
	"github.com/DishIs/temp-mail-sub000/internal/app/service/checkout"
	"github.com/DishIs/temp-mail-sub000/internal/app/service/eventlog"
	wh "github.com/DishIs/temp-mail-sub000/internal/app/service/webhook"
	cfgpkg "github.com/DishIs/temp-mail-sub000/pkg/config"
	metrics "github.com/DishIs/temp-mail-sub000/pkg/metrics"
	"github.com/DishIs/temp-mail-sub000/pkg/ratelimit"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func newRateLimiter(cfg *cfgpkg.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, 10*time.Minute)
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, webhookHandler *wh.Handler, initiator checkout.Initiator, events *eventlog.Service, cfg *cfgpkg.Config, limiter *ratelimit.Limiter) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Provider webhooks: no auth, no rate limiting. The providers drive their
	// own retry schedule and are authenticated by signature instead.
	webhooks := r.Group("/api")
	webhooks.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterWebhookRoutes(webhooks, webhookHandler)

	// Authenticated dashboard API
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg), mw.RateLimitMiddleware(limiter))
	handlers.RegisterCheckoutRoutes(apiV1, initiator)
	handlers.RegisterPortalRoutes(apiV1, initiator)
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), events)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Provide(newRateLimiter),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
