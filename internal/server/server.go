package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopyard/shopyard/internal/analytics"
	analyticsdomain "github.com/shopyard/shopyard/internal/analytics/domain"
	"github.com/shopyard/shopyard/internal/attestation"
	"github.com/shopyard/shopyard/internal/authorization"
	"github.com/shopyard/shopyard/internal/catalog"
	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
	"github.com/shopyard/shopyard/internal/config"
	"github.com/shopyard/shopyard/internal/events"
	"github.com/shopyard/shopyard/internal/observability"
	obsmiddleware "github.com/shopyard/shopyard/internal/observability/logger"
	obsmetrics "github.com/shopyard/shopyard/internal/observability/metrics"
	obstracing "github.com/shopyard/shopyard/internal/observability/tracing"
	"github.com/shopyard/shopyard/internal/order"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	"github.com/shopyard/shopyard/internal/payment"
	paymentdomain "github.com/shopyard/shopyard/internal/payment/domain"
	"github.com/shopyard/shopyard/internal/providers"
	"github.com/shopyard/shopyard/internal/providers/pdf"
	"github.com/shopyard/shopyard/internal/ratelimit"
	"github.com/shopyard/shopyard/internal/referral"
	referraldomain "github.com/shopyard/shopyard/internal/referral/domain"
	"github.com/shopyard/shopyard/internal/review"
	reviewdomain "github.com/shopyard/shopyard/internal/review/domain"
	"github.com/shopyard/shopyard/internal/settings"
	settingsdomain "github.com/shopyard/shopyard/internal/settings/domain"
	"github.com/shopyard/shopyard/internal/stockledger"
	stockdomain "github.com/shopyard/shopyard/internal/stockledger/domain"
	"github.com/shopyard/shopyard/internal/tenant"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	authorization.Module,
	events.Module,
	providers.Module,
	attestation.Module,
	ratelimit.Module,
	tenant.Module,
	catalog.Module,
	settings.Module,
	stockledger.Module,
	order.Module,
	review.Module,
	referral.Module,
	payment.Module,
	analytics.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerAllRoutes),
	fx.Invoke(Run),
)

func registerAllRoutes(s *Server) {
	s.RegisterStorefrontRoutes()
	s.RegisterAdminRoutes()
	s.RegisterRootRoutes()
	s.RegisterWebhookRoutes()
}

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

// Run starts the HTTP listener on the configured address and ties its
// shutdown to the fx lifecycle.
func Run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	tenantSvc    tenantdomain.Service
	catalogSvc   catalogdomain.Service
	settingsSvc  settingsdomain.Service
	orderSvc     orderdomain.Service
	stockRepo    stockdomain.Repository
	reviewSvc    reviewdomain.Service
	referralSvc  referraldomain.Service
	analyticsSvc analyticsdomain.Service
	webhookSvc   paymentdomain.WebhookService
	authzSvc     authorization.Service
	pdfRenderer  *pdf.Renderer
	limiter      *ratelimit.TokenBucket
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	TenantSvc    tenantdomain.Service
	CatalogSvc   catalogdomain.Service
	SettingsSvc  settingsdomain.Service
	OrderSvc     orderdomain.Service
	StockRepo    stockdomain.Repository
	ReviewSvc    reviewdomain.Service
	ReferralSvc  referraldomain.Service
	AnalyticsSvc analyticsdomain.Service
	WebhookSvc   paymentdomain.WebhookService
	AuthzSvc     authorization.Service
	PDFRenderer  *pdf.Renderer
	Limiter      *ratelimit.TokenBucket `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("server"),
		genID:        p.GenID,
		tenantSvc:    p.TenantSvc,
		catalogSvc:   p.CatalogSvc,
		settingsSvc:  p.SettingsSvc,
		orderSvc:     p.OrderSvc,
		stockRepo:    p.StockRepo,
		reviewSvc:    p.ReviewSvc,
		referralSvc:  p.ReferralSvc,
		analyticsSvc: p.AnalyticsSvc,
		webhookSvc:   p.WebhookSvc,
		authzSvc:     p.AuthzSvc,
		pdfRenderer:  p.PDFRenderer,
		limiter:      p.Limiter,
		obsMetrics:   p.ObsMetrics,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterStorefrontRoutes() {
	store := s.engine.Group("/store")
	store.Use(s.TenantResolver())

	store.GET("/products", s.ListStoreProducts)
	store.GET("/products/:slug", s.GetStoreProduct)
	store.GET("/categories", s.ListStoreCategories)
	store.GET("/shipping-options", s.ListShippingOptions)
	store.GET("/payment-options", s.ListPaymentOptions)

	store.GET("/products/:slug/reviews", s.ListProductReviews)
	store.POST("/reviews", s.RateLimit("review", 0.2, 5), s.SubmitReview)

	store.POST("/checkout", s.RateLimit("checkout", 0.5, 10), s.Checkout)
	store.GET("/orders/:number", s.GetOrderStatus)
}

func (s *Server) RegisterAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.TenantResolver())
	admin.Use(s.AdminAuth())

	// -------- Catalog --------
	admin.GET("/products", s.requireTier(authorization.ObjectCatalog, authorization.ActionView), s.ListProducts)
	admin.POST("/products", s.requireTier(authorization.ObjectCatalog, authorization.ActionManage), s.CreateProduct)
	admin.GET("/products/:id", s.requireTier(authorization.ObjectCatalog, authorization.ActionView), s.GetProduct)
	admin.PATCH("/products/:id", s.requireTier(authorization.ObjectCatalog, authorization.ActionManage), s.UpdateProduct)
	admin.GET("/categories", s.requireTier(authorization.ObjectCatalog, authorization.ActionView), s.ListCategories)
	admin.POST("/categories", s.requireTier(authorization.ObjectCatalog, authorization.ActionManage), s.CreateCategory)
	admin.PATCH("/categories/:id", s.requireTier(authorization.ObjectCatalog, authorization.ActionManage), s.UpdateCategory)
	admin.DELETE("/categories/:id", s.requireTier(authorization.ObjectCatalog, authorization.ActionManage), s.DeleteCategory)

	// -------- Stock --------
	admin.POST("/stock/adjust", s.requireTier(authorization.ObjectStock, authorization.ActionManage), s.AdjustStock)
	admin.GET("/stock/log", s.requireTier(authorization.ObjectStock, authorization.ActionManage), s.ListStockLog)

	// -------- Settings --------
	admin.GET("/settings/shipping-methods", s.requireTier(authorization.ObjectSettings, authorization.ActionManage), s.ListShippingMethods)
	admin.PUT("/settings/shipping-methods", s.requireTier(authorization.ObjectSettings, authorization.ActionManage), s.UpsertShippingMethod)
	admin.DELETE("/settings/shipping-methods/:code", s.requireTier(authorization.ObjectSettings, authorization.ActionManage), s.DeleteShippingMethod)
	admin.GET("/settings/payment-methods", s.requireTier(authorization.ObjectSettings, authorization.ActionManage), s.ListPaymentMethods)
	admin.PUT("/settings/payment-methods", s.requireTier(authorization.ObjectSettings, authorization.ActionManage), s.UpsertPaymentMethod)
	admin.DELETE("/settings/payment-methods/:code", s.requireTier(authorization.ObjectSettings, authorization.ActionManage), s.DeletePaymentMethod)

	// -------- Webhook config --------
	admin.PUT("/settings/webhook", s.requireTier(authorization.ObjectWebhooks, authorization.ActionManage), s.UpdateWebhookConfig)

	// -------- Orders --------
	admin.GET("/orders", s.requireTier(authorization.ObjectOrders, authorization.ActionView), s.ListOrders)
	admin.GET("/orders/:number", s.requireTier(authorization.ObjectOrders, authorization.ActionView), s.GetOrder)
	admin.GET("/orders/:number/receipt", s.requireTier(authorization.ObjectReceipts, authorization.ActionView), s.DownloadReceipt)

	// -------- Analytics --------
	admin.GET("/analytics/daily", s.requireTier(authorization.ObjectAnalytics, authorization.ActionView), s.GetDailyAnalytics)
}

func (s *Server) RegisterRootRoutes() {
	root := s.engine.Group("/root")
	root.Use(s.RootAuth())

	root.GET("/tenants", s.ListTenants)
	root.POST("/tenants", s.CreateTenant)
	root.GET("/tenants/:id", s.GetTenant)
	root.PATCH("/tenants/:id", s.UpdateTenant)
	root.POST("/tenants/:id/reset-password", s.ResetTenantPassword)

	root.GET("/referrals", s.ListReferralAccounts)
	root.POST("/referrals", s.CreateReferralAccount)
	root.GET("/referrals/:code/earnings", s.ListReferralEarnings)
	root.POST("/referrals/:code/mark-paid", s.MarkReferralEarningsPaid)
}

func (s *Server) RegisterWebhookRoutes() {
	s.engine.POST("/webhooks/payment", s.HandlePaymentWebhook)
}
