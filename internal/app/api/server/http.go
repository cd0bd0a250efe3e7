package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/platewise/platewise/docs"
	"github.com/platewise/platewise/internal/app/api/handlers"
	"github.com/platewise/platewise/internal/app/service/billing"
	eh "github.com/platewise/platewise/internal/app/service/event_handler"
	plansvc "github.com/platewise/platewise/internal/app/service/plan"
	recipesvc "github.com/platewise/platewise/internal/app/service/recipe"
	subsvc "github.com/platewise/platewise/internal/app/service/subscription"
	cfgpkg "github.com/platewise/platewise/pkg/config"
	types "github.com/platewise/platewise/pkg/types"

	mw "github.com/platewise/platewise/internal/app/api/middleware"

	metrics "github.com/platewise/platewise/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, eventHandler *eh.EventHandler, billingSvc *billing.Service, sub *subsvc.Service, plans *plansvc.Service, recipes *recipesvc.Service, cfg *cfgpkg.Config) {
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

	// Public catalog APIs
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterRecipeRoutes(apiV1, recipes)
	handlers.RegisterPlanRoutes(apiV1, plans)

	// Stripe calls this endpoint directly; signature verification is the auth.
	apiV1.POST("/billing/webhook", handlers.ApiStripeWebhook(eventHandler))

	// Authenticated APIs
	authed := apiV1.Group("/")
	authed.Use(mw.AuthMiddleware(cfg))
	handlers.RegisterBillingRoutes(authed.Group("/billing"), billingSvc, sub)
	handlers.RegisterRecipeReviewerRoutes(authed, recipes)

	// Recipe authoring is limited to nutritionists and admins.
	authors := authed.Group("/")
	authors.Use(mw.RequireRole(types.UserRoleNutritionist, types.UserRoleAdmin))
	handlers.RegisterRecipeAuthorRoutes(authors, recipes)

	// Admin APIs
	admin := authed.Group("/admin")
	admin.Use(mw.RequireRole(types.UserRoleAdmin))
	handlers.RegisterAdminRoutes(admin, sub)
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
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
