package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/dealspot/dealspot/docs"
	"github.com/dealspot/dealspot/internal/api/handler"
	"github.com/dealspot/dealspot/internal/api/middleware"
	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// Deps carries everything the HTTP layer needs. Services are built by the
// caller so the router stays free of storage concerns.
type Deps struct {
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
	Log            zerolog.Logger

	Auth        ports.AuthService
	Users       ports.UserService
	Deals       ports.DealService
	Catalog     ports.CatalogService
	Comments    ports.CommentService
	Subscribers ports.SubscriberService
	Settings    ports.SettingsService
	UserStores  ports.UserStoreService
	Stats       ports.StatsService
	Exports     ports.ExportService
	Previewer   handler.Previewer
	Dispatcher  handler.ActivityDispatcher
	Health      map[string]handler.HealthCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
// It registers Prometheus collectors, so it must be called once per process.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("dealspot"))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authMW := middleware.Auth(d.JWTSecret)
	limited := middleware.RateLimit(d.RateLimitRPS, d.RateLimitBurst, 3*time.Minute)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/auth", limited)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	deals := handler.NewDealHandler(d.Deals, d.Dispatcher)
	comments := handler.NewCommentHandler(d.Comments)
	catalog := handler.NewCatalogHandler(d.Catalog)
	subscribers := handler.NewSubscriberHandler(d.Subscribers)

	// --- Public site ---
	v1 := e.Group("/v1", middleware.OptionalAuth(d.JWTSecret))
	v1.GET("/deals", deals.List)
	v1.GET("/deals/:slug", deals.Get)
	v1.GET("/deals/:id/go", deals.Go)
	v1.GET("/deals/:id/comments", comments.Thread)
	v1.POST("/deals/:id/vote", deals.Vote, authMW, limited)
	v1.POST("/deals/:id/comments", comments.Create, authMW, limited)
	v1.POST("/comments/:id/like", comments.Like, authMW, limited)
	v1.DELETE("/comments/:id", comments.Delete, authMW)
	v1.GET("/stores", catalog.ListStores)
	v1.GET("/stores/:slug", catalog.GetStore)
	v1.GET("/deal-types", catalog.ListDealTypes)
	v1.GET("/coupons", catalog.ListCoupons)
	v1.POST("/subscribers", subscribers.Subscribe, limited)
	v1.POST("/subscribers/unsubscribe", subscribers.Unsubscribe, limited)

	// --- Contributor dashboard ---
	dash := e.Group("/v1/dashboard", authMW, middleware.RBAC(domain.RoleAdmin, domain.RoleContributor))
	dash.GET("/deals", deals.DashboardList)
	dash.GET("/deals/:id", deals.GetByID)
	dash.POST("/deals", deals.Create)
	dash.PUT("/deals/:id", deals.Update)
	dash.DELETE("/deals/:id", deals.Delete)
	dash.PATCH("/deals/:id/status", deals.SetStatus)

	dash.POST("/stores", catalog.CreateStore)
	dash.PUT("/stores/:id", catalog.UpdateStore)
	dash.DELETE("/stores/:id", catalog.DeleteStore)
	dash.POST("/deal-types", catalog.CreateDealType)
	dash.PUT("/deal-types/:id", catalog.UpdateDealType)
	dash.DELETE("/deal-types/:id", catalog.DeleteDealType)
	dash.POST("/coupons", catalog.CreateCoupon)
	dash.PUT("/coupons/:id", catalog.UpdateCoupon)
	dash.DELETE("/coupons/:id", catalog.DeleteCoupon)

	myStore := handler.NewMyStoreHandler(d.UserStores)
	dash.GET("/user-stores", myStore.ListReview)
	dash.PATCH("/user-stores/:id/approval", myStore.SetApproval)

	dash.GET("/stats", handler.NewStatsHandler(d.Stats).Dashboard)
	dash.GET("/preview", handler.NewPreviewHandler(d.Previewer).Preview)
	dash.GET("/export/:entity", handler.NewExportHandler(d.Exports).Export)

	// --- Admin only ---
	admin := handler.NewAdminHandler(d.Users, d.Settings)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	dash.GET("/users", admin.ListUsers, adminOnly)
	dash.POST("/users/:id/block", admin.Block, adminOnly)
	dash.DELETE("/users/:id/block", admin.Unblock, adminOnly)
	dash.PUT("/users/:id/role", admin.SetRole, adminOnly)
	dash.GET("/settings", admin.GetSettings, adminOnly)
	dash.PUT("/settings", admin.UpdateSettings, adminOnly)

	// --- Seller portal ---
	seller := e.Group("/v1/my-store", authMW, middleware.RBAC(domain.RoleSeller))
	seller.POST("", myStore.Create)
	seller.GET("", myStore.Get)
	seller.PUT("", myStore.Update)
	seller.GET("/deals", deals.ListMine)
	seller.POST("/deals", deals.Create)
	seller.PUT("/deals/:id", deals.Update)
	seller.DELETE("/deals/:id", deals.Delete)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
