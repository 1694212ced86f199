package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	cartapp "github.com/stitchpos/backend/internal/application/cart"
	catalogapp "github.com/stitchpos/backend/internal/application/catalog"
	checkoutapp "github.com/stitchpos/backend/internal/application/checkout"
	financeapp "github.com/stitchpos/backend/internal/application/finance"
	inventoryapp "github.com/stitchpos/backend/internal/application/inventory"
	labelsapp "github.com/stitchpos/backend/internal/application/labels"
	reportapp "github.com/stitchpos/backend/internal/application/report"
	cartdomain "github.com/stitchpos/backend/internal/domain/cart"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"github.com/stitchpos/backend/internal/infrastructure/auth"
	"github.com/stitchpos/backend/internal/infrastructure/cache"
	"github.com/stitchpos/backend/internal/infrastructure/config"
	"github.com/stitchpos/backend/internal/infrastructure/event"
	"github.com/stitchpos/backend/internal/infrastructure/logger"
	"github.com/stitchpos/backend/internal/infrastructure/payment"
	"github.com/stitchpos/backend/internal/infrastructure/persistence"
	"github.com/stitchpos/backend/internal/infrastructure/printing"
	"github.com/stitchpos/backend/internal/infrastructure/storage"
	"github.com/stitchpos/backend/internal/infrastructure/telemetry"
	"github.com/stitchpos/backend/internal/interfaces/http/handler"
	"github.com/stitchpos/backend/internal/interfaces/http/middleware"
	"github.com/stitchpos/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting StitchPOS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	shopRepo := persistence.NewGormShopRepository(db.DB)
	stockRepo := persistence.NewGormStockGroupRepository(db.DB)
	txnRepo := persistence.NewGormTransactionRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	categoryRepo := persistence.NewGormExpenseCategoryRepository(db.DB)
	menuRepo := persistence.NewGormSpendingMenuRepository(db.DB)
	sequenceRepo := persistence.NewGormBarcodeSequenceRepository(db.DB)

	// Event bus and stock adjustment handlers
	eventBus := event.NewInMemoryEventBus(log)
	stockService := inventoryapp.NewStockService(stockRepo, log)
	eventBus.Subscribe(inventoryapp.NewTransactionCompletedHandler(stockService, log))
	eventBus.Subscribe(inventoryapp.NewTransactionCancelledHandler(stockService, log))
	eventBus.Subscribe(inventoryapp.NewTransactionRefundedHandler(stockService, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Idempotency store: Redis when reachable, in-memory otherwise.
	// In-memory is fine for a single register but loses keys on restart.
	var idempotency shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
		idempotency = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotency = redisStore
	}
	defer func() {
		if err := idempotency.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Receipt storage: S3-compatible when a bucket is configured
	var receiptStorage financeapp.ReceiptStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ReceiptStorage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		receiptStorage = s3Storage
	} else {
		log.Warn("No storage bucket configured, receipt uploads will not be persisted")
		receiptStorage = storage.NewStubReceiptStorage()
	}

	// Label rendering: headless Chrome PDF when enabled, raw HTML otherwise
	var labelRenderer labelsapp.LabelRenderer
	labelContentType := "text/html; charset=utf-8"
	labelFilename := "labels.html"
	if cfg.Printing.Enabled {
		chromeRenderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			Timeout: cfg.Printing.Timeout,
			Logger:  log,
		})
		defer chromeRenderer.Close()
		labelRenderer = chromeRenderer
		labelContentType = "application/pdf"
		labelFilename = "labels.pdf"
	} else {
		labelRenderer = printing.NewHTMLSheetRenderer()
	}

	// Application services
	pricing := cartdomain.PricingSettings{
		TaxRate:         decimal.NewFromFloat(cfg.Business.TaxRate),
		DefaultCurrency: valueobject.Currency(cfg.Business.DefaultCurrency),
		ConversionRate:  decimal.NewFromFloat(cfg.Business.ConversionRate),
	}
	cartStore := cartapp.NewStore()
	cartService := cartapp.NewCartService(cartStore, stockRepo, stockService, pricing)
	shopService := catalogapp.NewShopService(shopRepo)
	stockGroupService := catalogapp.NewStockGroupService(stockRepo, eventBus, log)
	checkoutService := checkoutapp.NewCheckoutService(
		txnRepo, cartService, payment.NewManualGateway(log), idempotency, eventBus, log,
	)
	expenseService := financeapp.NewExpenseService(expenseRepo, categoryRepo, menuRepo, receiptStorage, log)
	reportService := reportapp.NewReportService(txnRepo, expenseRepo, log)
	labelService := labelsapp.NewLabelService(stockRepo, sequenceRepo, labelRenderer, cfg.Barcode.CompanyPrefix, log)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	verifier := auth.NewVerifier(cfg.JWT)
	engine.Use(middleware.JWTAuth(middleware.JWTConfig{
		Verifier: verifier,
		SkipPaths: []string{
			"/health", "/ready",
			"/api/v1/health", "/api/v1/ready",
		},
		DevShopHeader: cfg.App.Env != "production",
	}))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewHealthHandler(db)).
		Register(handler.NewShopHandler(shopService)).
		Register(handler.NewStockGroupHandler(stockGroupService)).
		Register(handler.NewCartHandler(cartService)).
		Register(handler.NewTransactionHandler(checkoutService)).
		Register(handler.NewExpenseHandler(expenseService)).
		Register(handler.NewReportHandler(reportService)).
		Register(handler.NewLabelHandler(labelService, labelContentType, labelFilename))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
