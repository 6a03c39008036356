package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cashdeskapp "github.com/hotelops/backend/internal/application/cashdesk"
	"github.com/hotelops/backend/internal/infrastructure/auth"
	"github.com/hotelops/backend/internal/infrastructure/cache"
	"github.com/hotelops/backend/internal/infrastructure/config"
	"github.com/hotelops/backend/internal/infrastructure/event"
	"github.com/hotelops/backend/internal/infrastructure/logger"
	"github.com/hotelops/backend/internal/infrastructure/migration"
	"github.com/hotelops/backend/internal/infrastructure/persistence"
	"github.com/hotelops/backend/internal/infrastructure/storage"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"github.com/hotelops/backend/internal/interfaces/http/handler"
	"github.com/hotelops/backend/internal/interfaces/http/middleware"
	"github.com/hotelops/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/hotelops/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout       = 30 * time.Second
	metricsExportInterval = 30 * time.Second
	shiftGaugeInterval    = time.Minute
	archiveDedupTTL       = 24 * time.Hour
)

//	@title			Cashdesk API
//	@version		1.0
//	@description	Cashier shift lifecycle and cash reconciliation for hotel front desks.

//	@contact.name	Hotel Ops Engineering
//	@contact.url	https://github.com/hotelops/backend

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
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry first so the log bridge covers everything that follows
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    metricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             cfg.Log.Level,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.PyroscopeEndpoint,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileAlloc:      true,
		ProfileInuse:      true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Warn("Continuous profiling disabled", zap.Error(err))
	}
	if profiler != nil && profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to link spans to profiles", zap.Error(err))
		}
	}

	log.Info("Starting cashdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithIgnoreRecordNotFoundError(true),
	)
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

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, meterProvider, log).Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	if err := runMigrations(db, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Redis backs idempotency keys, the start-shift lock and token
	// revocation; without it the first two fall back to process memory.
	stores, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Application services
	scope := persistence.NewGormTransactionScope(db.DB)
	repos := persistence.NewCashdeskRepositories(db.DB)

	shiftService := cashdeskapp.NewShiftService(scope, log)
	shiftService.SetTolerance(cfg.Cashdesk.Tolerance)
	shiftService.SetIdempotencyStore(stores.Idempotency, cfg.Cashdesk.IdempotencyTTL)
	if stores.Locker != nil {
		shiftService.SetLocker(stores.Locker)
	}
	approvalService := cashdeskapp.NewApprovalService(scope, log)
	drawerService := cashdeskapp.NewDrawerService(scope, repos, log)
	queryService := cashdeskapp.NewShiftQueryService(repos, log)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	shiftService.SetEventPublisher(eventBus)
	approvalService.SetEventPublisher(eventBus)

	cashdeskMetrics, err := telemetry.NewCashdeskMetrics(telemetry.CashdeskMetricsConfig{
		Meter:    meterProvider.Meter("cashdesk"),
		Logger:   log,
		Provider: telemetry.NewGormShiftMetricsProvider(db.DB),
	})
	if err != nil {
		log.Warn("Cashdesk metrics disabled", zap.Error(err))
	} else {
		eventBus.Subscribe(cashdeskapp.NewShiftMetricsHandler(cashdeskMetrics))
		cashdeskMetrics.StartPeriodicCollection(ctx, shiftGaugeInterval)
		defer cashdeskMetrics.Stop()
	}

	if _, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("database"), db, log); err != nil {
		log.Warn("Database pool metrics disabled", zap.Error(err))
	}

	if cfg.Storage.Enabled {
		reportStorage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Cashdesk.ReportLinkTTL),
		)
		if err != nil {
			log.Fatal("Failed to initialize report storage", zap.Error(err))
		}
		if err := reportStorage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare report bucket", zap.Error(err), zap.String("bucket", reportStorage.Bucket()))
		}
		queryService.SetReportStorage(reportStorage, cfg.Cashdesk.ReportLinkTTL)

		if cfg.Cashdesk.ArchiveReports {
			archiver := cashdeskapp.NewShiftReportArchiver(queryService, repos.Shifts, reportStorage, log)
			eventBus.Subscribe(event.NewIdempotentHandler(archiver, stores.Idempotency, log,
				event.WithIdempotencyConfig(event.IdempotencyConfig{
					Enabled:   true,
					TTL:       archiveDedupTTL,
					KeyPrefix: "report-archive",
				}),
			))
			log.Info("Shift report archiving enabled", zap.String("bucket", reportStorage.Bucket()))
		}
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// HTTP handlers
	drawerHandler := handler.NewDrawerHandler(drawerService)
	shiftHandler := handler.NewShiftHandler(shiftService, approvalService, queryService)
	systemHandler := handler.NewSystemHandler(version, db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	if stores.Client != nil {
		jwtConfig.Revocations = auth.NewRedisRevocationList(stores.Client)
	}
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	prometheusMetrics := middleware.NewPrometheusMetrics(middleware.PrometheusConfig{RuntimeCollectors: true})

	// Middleware order:
	// 1. RequestID, Recovery and request logging
	// 2. Tracing spans, then metrics so they see the final status
	// 3. Security headers, CORS and the body limit
	// 4. JWT authentication, then the per-user rate limit
	// 5. Profiling labels, which read the caller's role
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       cfg.Telemetry.Enabled,
		Logger:        log,
	}))
	engine.Use(prometheusMetrics.Middleware())
	engine.Use(middleware.Secure())

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
	engine.Use(jwtAuth)

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler != nil && profiler.IsEnabled()
	engine.Use(middleware.ProfilingWithConfig(profilingConfig))

	// Routes outside API versioning
	router.HealthRoute(engine, systemHandler)
	engine.GET("/metrics", prometheusMetrics.Handler())
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, jwtAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	router.NewRouter(engine).
		Register(router.NewSystemRoutes(systemHandler)).
		Register(router.NewCashdeskRoutes(drawerHandler, shiftHandler)).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	// Drain async handlers (report archiving) before the stores close
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Warn("Error stopping profiler", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies the embedded schema migrations
func runMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.SQL()
	if err != nil {
		return err
	}
	migrator, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	// Not closed: that would close the shared *sql.DB
	return migrator.Up()
}
