package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountingapp "github.com/spark7/backoffice/internal/application/accounting"
	salesapp "github.com/spark7/backoffice/internal/application/sales"
	"github.com/spark7/backoffice/internal/domain/sales"
	"github.com/spark7/backoffice/internal/infrastructure/auth"
	"github.com/spark7/backoffice/internal/infrastructure/config"
	"github.com/spark7/backoffice/internal/infrastructure/logger"
	"github.com/spark7/backoffice/internal/infrastructure/persistence"
	"github.com/spark7/backoffice/internal/infrastructure/telemetry"
	"github.com/spark7/backoffice/internal/interfaces/http/handler"
	"github.com/spark7/backoffice/internal/interfaces/http/middleware"
	"github.com/spark7/backoffice/internal/interfaces/http/router"
)

// version is stamped at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting back-office server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = true
		plugin := telemetry.NewDBTracingPlugin(dbTracing, log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	openingRepo := persistence.NewGormOpeningBalanceRepository(db.DB)
	dayBookRepo := persistence.NewGormDayBookRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)
	numbers := persistence.NewGormNumberGenerator(db.DB)

	// Sales collaborator adapters
	catalog := persistence.NewGormProductCatalog(db.DB)
	customers := persistence.NewGormCustomerDirectory(db.DB)
	customerLedger := persistence.NewGormCustomerLedger(db.DB)
	creditNotes := persistence.NewGormCreditNoteService(db.DB)

	// Initialize application services
	accountService := accountingapp.NewAccountService(accountRepo, entryRepo)
	ledgerService := accountingapp.NewLedgerService(accountRepo, entryRepo)
	voucherService := accountingapp.NewVoucherService(
		uow, accountRepo, voucherRepo, openingRepo, ledgerService, accountService, numbers,
	)
	dayBookService := accountingapp.NewDayBookService(uow, dayBookRepo, accountService, voucherService)
	reportService := accountingapp.NewReportService(accountRepo, entryRepo, accountService)
	salesService := salesapp.NewSalesService(
		uow, saleRepo, catalog, customers, customerLedger, creditNotes,
		voucherService, numbers, sales.DefaultDiscountPolicy(),
	)

	// Seed the chart of accounts. Safe to run on every boot.
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := accountService.EnsureDefaultAccounts(seedCtx); err != nil {
		seedCancel()
		log.Fatal("Failed to seed default accounts", zap.Error(err))
	}
	seedCancel()
	log.Info("Chart of accounts ready")

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	accountHandler := handler.NewAccountHandler(accountService)
	voucherHandler := handler.NewVoucherHandler(voucherService, ledgerService)
	dayBookHandler := handler.NewDayBookHandler(dayBookService)
	reportHandler := handler.NewReportHandler(reportService)
	salesHandler := handler.NewSalesHandler(salesService)
	systemHandler := handler.NewSystemHandler(db, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request id, panic recovery, request
	// logging, tracing, CORS, body limit, authentication.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
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

	engine.Use(middleware.BodyLimit(int64(cfg.HTTP.MaxHeaderBytes)))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Liveness and readiness endpoints outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Register API routes under /api/v1
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(accountHandler).
		Register(voucherHandler).
		Register(dayBookHandler).
		Register(reportHandler).
		Register(salesHandler)
	r.Setup()

	// Start HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced server shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
