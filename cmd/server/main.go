// Package main jpashop API Server
//
//	@title						jpashop API
//	@version					1.0
//	@description				Members, books and orders for a small online bookshop.
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.
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

	catalogapp "github.com/jpashop/backend/internal/application/catalog"
	memberapp "github.com/jpashop/backend/internal/application/member"
	orderingapp "github.com/jpashop/backend/internal/application/ordering"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/auth"
	"github.com/jpashop/backend/internal/infrastructure/cache"
	"github.com/jpashop/backend/internal/infrastructure/config"
	"github.com/jpashop/backend/internal/infrastructure/event"
	"github.com/jpashop/backend/internal/infrastructure/logger"
	"github.com/jpashop/backend/internal/infrastructure/persistence"
	"github.com/jpashop/backend/internal/infrastructure/telemetry"
	"github.com/jpashop/backend/internal/interfaces/http/handler"
	"github.com/jpashop/backend/internal/interfaces/http/middleware"
	"github.com/jpashop/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	startupCtx := context.Background()

	// Logs provider comes first so the zap logger can tee into it
	bootLog := zap.NewNop()
	loggerProvider, err := telemetry.NewLoggerProvider(startupCtx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		panic("Failed to initialize logs provider: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	var logOpts []logger.Option
	if loggerProvider.IsEnabled() {
		logOpts = append(logOpts, logger.WithCore(
			telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, logger.ParseLevel(cfg.Log.Level)),
		))
	}
	log, err := logger.New(logCfg, logOpts...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting jpashop server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(startupCtx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(startupCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter("jpashop")

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Warn("Meter provider shutdown failed", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
		if err := loggerProvider.Shutdown(ctx); err != nil {
			log.Warn("Logs provider shutdown failed", zap.Error(err))
		}
	}()

	// Database
	gormLogger := logger.NewGormLogger(log,
		logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold),
	)
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(gormLogger),
		persistence.WithQueryHook(logger.NewBunQueryHook(log, cfg.Database.SlowThreshold)),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	if _, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB, "postgresql"); err != nil {
		log.Warn("Failed to register connection pool metrics", zap.Error(err))
	}

	// Idempotency store: Redis when configured, in-memory otherwise
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore(startupCtx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotencyStore.Close() }()
	idempotencyCfg := shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}

	// Repositories
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderQueryRepo := persistence.NewBunOrderQueryRepository(db.Bun)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Services
	memberService := memberapp.NewService(memberRepo, eventBus, log)
	itemService := catalogapp.NewItemService(itemRepo, eventBus, log)
	orderService := orderingapp.NewService(txScope, orderRepo, log).
		WithEventPublisher(eventBus).
		WithIdempotency(idempotencyStore, idempotencyCfg)
	orderQueryService := orderingapp.NewQueryService(orderRepo, orderQueryRepo)

	// Business metrics observe order events and poll the catalog
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:           meter,
		Logger:          log,
		CollectInterval: cfg.Telemetry.MetricsInterval,
		StockProvider:   itemService,
	})
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	eventBus.Subscribe(event.NewMetricsHandler(businessMetrics, log))
	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	defer stopMetrics()
	businessMetrics.StartPeriodicCollection(metricsCtx)
	defer businessMetrics.Stop()

	if cfg.Event.KafkaEnabled {
		serializer := event.NewEventSerializer()
		event.RegisterAllEvents(serializer)
		kafkaPublisher := event.NewKafkaEventPublisher(
			event.NewKafkaWriter(cfg.Event.KafkaBrokers, cfg.Event.KafkaTopic),
			serializer,
			log,
		)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Warn("Failed to close Kafka publisher", zap.Error(err))
			}
		}()
		eventBus.Subscribe(event.NewIdempotentHandler(kafkaPublisher, idempotencyStore, log,
			event.WithIdempotencyConfig(idempotencyCfg),
		))
		log.Info("Kafka event relay enabled",
			zap.Strings("brokers", cfg.Event.KafkaBrokers),
			zap.String("topic", cfg.Event.KafkaTopic),
		)
	}

	if err := eventBus.Start(startupCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanAnnotator())
	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics middleware", zap.Error(err))
	}
	engine.Use(httpMetrics)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(metricsCtx, middleware.RateLimiterConfig{
			Requests: cfg.HTTP.RateLimitRequests,
			Window:   cfg.HTTP.RateLimitWindow,
		})
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)
	engine.GET("/health", systemHandler.Health)

	routerOpts := []router.RouterOption{router.WithAPIVersion("v1")}
	if cfg.Auth.Enabled {
		routerOpts = append(routerOpts, router.WithWriteGuard(middleware.BearerAuth(middleware.BearerAuthConfig{
			Tokens:        auth.NewTokenService(cfg.Auth),
			RequiredScope: auth.ScopeWrite,
			Logger:        log,
		})))
		log.Info("Bearer authentication enabled for write routes")
	}
	r := router.NewRouter(engine, routerOpts...)
	router.RegisterAPI(r, router.APIHandlers{
		System:    systemHandler,
		Member:    handler.NewMemberHandler(memberService),
		Item:      handler.NewItemHandler(itemService),
		Order:     handler.NewOrderHandler(orderService),
		OrderView: handler.NewOrderViewHandler(orderQueryService),
	})
	r.Setup()

	if cfg.Web.Enabled {
		pages := handler.NewPageHandler(memberService, itemService, orderService)
		if err := router.RegisterPages(engine, pages); err != nil {
			log.Fatal("Failed to register pages", zap.Error(err))
		}
	}

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
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
