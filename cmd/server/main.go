package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/bewloop/quark-system/docs"
	identityapp "github.com/bewloop/quark-system/internal/application/identity"
	invoicingapp "github.com/bewloop/quark-system/internal/application/invoicing"
	partnerapp "github.com/bewloop/quark-system/internal/application/partner"
	payrollapp "github.com/bewloop/quark-system/internal/application/payroll"
	productionapp "github.com/bewloop/quark-system/internal/application/production"
	stockapp "github.com/bewloop/quark-system/internal/application/stock"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/bewloop/quark-system/internal/infrastructure/auth"
	"github.com/bewloop/quark-system/internal/infrastructure/cache"
	"github.com/bewloop/quark-system/internal/infrastructure/config"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"github.com/bewloop/quark-system/internal/infrastructure/persistence"
	"github.com/bewloop/quark-system/internal/infrastructure/printing"
	"github.com/bewloop/quark-system/internal/infrastructure/storage"
	"github.com/bewloop/quark-system/internal/infrastructure/telemetry"
	"github.com/bewloop/quark-system/internal/interfaces/http/handler"
	"github.com/bewloop/quark-system/internal/interfaces/http/middleware"
	"github.com/bewloop/quark-system/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Quark System API
//	@version		1.0
//	@description	Workshop backend for seat-cover production orders, stock, payroll and invoices.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// The OTLP log bridge needs a logger to report its own setup
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}
	log, err := logger.New(logCfg, telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, zapcore.InfoLevel))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Quark System",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeURL,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		LogFullSQL:      !cfg.IsProduction(),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var revoker auth.SessionRevoker
	if redisClient != nil {
		revoker = auth.NewRedisSessionRevoker(redisClient)
	} else {
		log.Warn("Redis not configured, session revocation is local to this instance")
		revoker = auth.NewInMemorySessionRevoker()
	}

	txManager := persistence.NewGormTxManager(db.DB)
	allocator := persistence.NewGormSequenceAllocator(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	statusLogRepo := persistence.NewGormStatusLogRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	periodRepo := persistence.NewGormPayrollPeriodRepository(db.DB)
	lockEventRepo := persistence.NewGormPayrollLockEventRepository(db.DB)
	payrollItemRepo := persistence.NewGormPayrollItemRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meterProvider.Meter("quark-system/business"),
		Logger: log,
		InStock: func(ctx context.Context) (int64, error) {
			_, total, err := stockRepo.List(ctx, stock.ListFilter{
				Filter:      shared.Filter{Page: 1, PageSize: 1},
				InStockOnly: true,
			})
			return total, err
		},
	})
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}
	defer businessMetrics.Stop()

	renderer, err := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Printing, log))
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		_ = renderer.Close()
	}()
	invoicePrinter, err := printing.NewInvoicePrinter(renderer, cfg.Printing.Language)
	if err != nil {
		log.Fatal("Failed to initialize invoice printer", zap.Error(err))
	}

	var archive invoicingapp.DocumentArchive
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3Archive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize document archive", zap.Error(err))
		}
		archive = s3Archive
		log.Info("Invoice archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	location := cfg.Numbering.Location()

	orderService := productionapp.NewOrderService(txManager, allocator, orderRepo, statusLogRepo, stockRepo,
		businessMetrics, productionapp.OrderServiceConfig{
			OrderPrefix: cfg.Numbering.OrderPrefix,
			Location:    location,
		})
	payrollService := payrollapp.NewPayrollService(txManager, periodRepo, lockEventRepo, payrollItemRepo, userRepo, businessMetrics)
	stockService := stockapp.NewStockService(txManager, stockRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	invoiceService := invoicingapp.NewInvoiceService(txManager, allocator, invoiceRepo, customerRepo,
		invoicePrinter, archive, businessMetrics, invoicingapp.InvoiceServiceConfig{
			Location: location,
			Seller: invoicingapp.Party{
				Name:    cfg.Printing.CompanyName,
				Address: cfg.Printing.CompanyAddr,
				TaxID:   cfg.Printing.TaxID,
			},
		})
	authService := identityapp.NewAuthService(userRepo, jwtService, revoker)
	userService := identityapp.NewUserService(userRepo, revoker, cfg.JWT.AccessTokenExpiration)

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Orders:   handler.NewOrderHandler(orderService),
		Payroll:  handler.NewPayrollHandler(payrollService),
		Stock:    handler.NewStockHandler(stockService),
		Customer: handler.NewCustomerHandler(customerService),
		Invoices: handler.NewInvoiceHandler(invoiceService),
		Users:    handler.NewUserHandler(userService),
		System:   handler.NewSystemHandler(db, cfg.App.Name, version),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{middleware.IdempotencyReplayedHeader, handler.ArchiveURLHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("quark-system/http"), log))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:          cfg.Telemetry.ProfilingEnabled,
		SkipPathPrefixes: middleware.DefaultProfilingConfig().SkipPathPrefixes,
	}))

	engine.GET("/health", handlers.System.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore = cache.NewIdempotencyStore(redisClient, log)
	}
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Store:  idempotencyStore,
		TTL:    cfg.Idempotency.TTL,
		Logger: log,
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.RegisterPublic(router.PublicRoutes(handlers))
	for _, group := range router.DomainRoutes(handlers, idempotent) {
		r.Register(group)
	}
	r.Use(
		middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Revoker:    revoker,
			Logger:     log,
		}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.RoutePermissionMiddleware(middleware.RoutePermissionConfig{
			Routes:      r.Permissions(),
			Logger:      log,
			DefaultDeny: true,
		}),
	)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down OTEL logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
