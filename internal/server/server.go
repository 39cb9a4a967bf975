package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/venuebook/internal/booking"
	bookingdomain "github.com/smallbiznis/venuebook/internal/booking/domain"
	"github.com/smallbiznis/venuebook/internal/catalog"
	catalogdomain "github.com/smallbiznis/venuebook/internal/catalog/domain"
	"github.com/smallbiznis/venuebook/internal/clock"
	"github.com/smallbiznis/venuebook/internal/config"
	"github.com/smallbiznis/venuebook/internal/customer"
	"github.com/smallbiznis/venuebook/internal/document"
	"github.com/smallbiznis/venuebook/internal/flatrate"
	flatratedomain "github.com/smallbiznis/venuebook/internal/flatrate/domain"
	"github.com/smallbiznis/venuebook/internal/observability"
	obslogger "github.com/smallbiznis/venuebook/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/venuebook/internal/observability/metrics"
	obstracing "github.com/smallbiznis/venuebook/internal/observability/tracing"
	"github.com/smallbiznis/venuebook/internal/quote"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/smallbiznis/venuebook/internal/ratelimit"
	"github.com/smallbiznis/venuebook/internal/report"
	"github.com/smallbiznis/venuebook/internal/tier"
	tierdomain "github.com/smallbiznis/venuebook/internal/tier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	tier.Module,
	catalog.Module,
	flatrate.Module,
	customer.Module,
	quote.Module,
	booking.Module,
	document.Module,
	report.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(SecureHeaders(obsCfg.Debug()))
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
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

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	clock       clock.Clock
	quoteSvc    quotedomain.Service
	bookingSvc  bookingdomain.Service
	tierSvc     tierdomain.Service
	catalogSvc  catalogdomain.Service
	flatRateSvc flatratedomain.Service
	renderer    document.Renderer
	reports     *report.Service
	limiter     *ratelimit.PublicLimiter
	obsMetrics  *obsmetrics.Metrics

	pdfGroup singleflight.Group
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Clock       clock.Clock
	QuoteSvc    quotedomain.Service
	BookingSvc  bookingdomain.Service
	TierSvc     tierdomain.Service
	CatalogSvc  catalogdomain.Service
	FlatRateSvc flatratedomain.Service
	Renderer    document.Renderer
	Reports     *report.Service
	Limiter     *ratelimit.PublicLimiter `optional:"true"`
	ObsMetrics  *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		clock:       p.Clock,
		quoteSvc:    p.QuoteSvc,
		bookingSvc:  p.BookingSvc,
		tierSvc:     p.TierSvc,
		catalogSvc:  p.CatalogSvc,
		flatRateSvc: p.FlatRateSvc,
		renderer:    p.Renderer,
		reports:     p.Reports,
		limiter:     p.Limiter,
		obsMetrics:  p.ObsMetrics,
	}
	svc.registerPublicRoutes()
	svc.registerAdminRoutes()
	svc.registerFallback()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now()
}

func (s *Server) registerPublicRoutes() {
	api := s.engine.Group("/api")

	// -------- Quotes --------
	api.POST("/quotes/preview", s.PublicRateLimit(), s.PreviewQuote)
	api.GET("/quotes/estimate", s.PublicRateLimit(), s.EstimatePackage)

	// -------- Bookings --------
	api.POST("/bookings", s.PublicRateLimit(), s.CreateBooking)
	api.GET("/bookings/:id", s.GetBooking)
	api.GET("/bookings/:id/lines", s.GetBookingLines)
	api.GET("/bookings/:id/quote.pdf", s.GetBookingQuotePDF)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AdminKeyRequired())

	// -------- Tiers --------
	admin.GET("/tiers", s.ListTiers)
	admin.POST("/tiers", s.CreateTier)
	admin.GET("/tiers/:id", s.GetTier)
	admin.PATCH("/tiers/:id", s.UpdateTier)

	// -------- Catalog --------
	admin.GET("/equipment", s.ListEquipment)
	admin.POST("/equipment", s.CreateEquipment)
	admin.GET("/equipment/:id", s.GetEquipment)
	admin.GET("/services", s.ListOfferings)
	admin.POST("/services", s.CreateOffering)
	admin.GET("/services/:id", s.GetOffering)

	// -------- Flat rates --------
	admin.GET("/flat_rates", s.ListFlatRates)
	admin.POST("/flat_rates", s.CreateFlatRate)

	// -------- Bookings --------
	admin.GET("/bookings", s.ListBookings)
	admin.POST("/bookings/:id/cancel", s.CancelBooking)

	// -------- Reports --------
	admin.GET("/reports/bookings.xlsx", s.ExportBookings)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
