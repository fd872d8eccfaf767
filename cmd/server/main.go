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

	chatapp "github.com/tradesphere/antiscam/internal/application/chat"
	notifyapp "github.com/tradesphere/antiscam/internal/application/notify"
	reportapp "github.com/tradesphere/antiscam/internal/application/report"
	scamcheckapp "github.com/tradesphere/antiscam/internal/application/scamcheck"
	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"github.com/tradesphere/antiscam/internal/infrastructure/ai"
	"github.com/tradesphere/antiscam/internal/infrastructure/cache"
	"github.com/tradesphere/antiscam/internal/infrastructure/config"
	"github.com/tradesphere/antiscam/internal/infrastructure/crawler"
	"github.com/tradesphere/antiscam/internal/infrastructure/logger"
	"github.com/tradesphere/antiscam/internal/infrastructure/persistence"
	"github.com/tradesphere/antiscam/internal/infrastructure/telemetry"
	"github.com/tradesphere/antiscam/internal/infrastructure/zalo"
	"github.com/tradesphere/antiscam/internal/interfaces/http/handler"
	"github.com/tradesphere/antiscam/internal/interfaces/http/middleware"
	"github.com/tradesphere/antiscam/internal/interfaces/http/router"
)

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

	log.Info("Starting Anti-Scam API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	searchLogRepo := persistence.NewGormSearchLogRepository(db.DB)

	// Telemetry (no-op provider when disabled)
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewServiceMetrics(meterProvider.Meter("antiscam"), log)
	if err != nil {
		log.Fatal("Failed to initialize service metrics", zap.Error(err))
	}

	// Result cache: Redis when reachable, in-memory otherwise. Lookups
	// stay functional either way.
	var resultCache scamcheck.ResultCache
	redisCache, err := cache.NewRedisResultCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Cache.Namespace, cfg.Cache.TTL, log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory result cache", zap.Error(err))
		resultCache = cache.NewInMemoryResultCache(cfg.Cache.TTL)
	} else {
		resultCache = redisCache
		log.Info("Redis result cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Shared headless browser pool for the rendered sources
	browser, err := crawler.NewBrowser(&crawler.BrowserConfig{
		PoolSize:       cfg.Crawler.PoolSize,
		DefaultTimeout: cfg.Crawler.SourceTimeout,
		Headless:       cfg.Crawler.Headless,
		NoSandbox:      true,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize browser pool", zap.Error(err))
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Error("Error closing browser", zap.Error(err))
		}
	}()

	// Source adapters
	registry := scamcheck.NewRegistry(
		crawler.NewRenderedPageSource(crawler.AdminVNDescriptor(), browser, cfg.Crawler.SettleDelay, log),
		crawler.NewRenderedPageSource(crawler.CheckScamVNDescriptor(), browser, cfg.Crawler.SettleDelay, log),
		crawler.NewRenderedPageSource(crawler.ScamVNDescriptor(), browser, cfg.Crawler.SettleDelay, log),
		crawler.NewFeedSource("", cfg.Crawler.FeedTimeout, log),
	)

	// Lookup use case
	aggregator := scamcheckapp.NewAggregator(registry, metrics, log)
	searchService := scamcheckapp.NewSearchService(aggregator, resultCache, searchLogRepo, metrics, log)

	// Messaging gateway and AI advisor
	zaloClient := zalo.NewClient(zalo.ClientConfig{
		BaseURL:     cfg.Zalo.BaseURL,
		AccessToken: cfg.Zalo.AccessToken,
		Timeout:     cfg.Zalo.Timeout,
		Logger:      log,
	})
	advisor := ai.NewAdvisor(ai.AdvisorConfig{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
		Logger:  log,
	})
	if !advisor.Configured() {
		log.Warn("AI advisor not configured, free-text questions get a canned reply")
	}

	// Chat and notification services
	webhookService := chatapp.NewWebhookService(
		userRepo, messageRepo, searchService, advisor, zaloClient, zaloClient, metrics, log,
	)
	dispatcher := notifyapp.NewDispatcher(zaloClient, notifyapp.DispatcherConfig{
		MaxRetries:        cfg.Notify.MaxRetries,
		RetryBackoff:      cfg.Notify.RetryBackoff,
		BroadcastInterval: cfg.Notify.BroadcastInterval,
	}, metrics, log)
	broadcastService := notifyapp.NewBroadcastService(userRepo, dispatcher, notificationRepo, log)
	reportService := reportapp.NewService(reportRepo, log)

	// Scheduler for daily tips and verified-report alerts
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if cfg.Notify.SchedulerEnabled {
		tipScheduler := notifyapp.NewTipScheduler(
			userRepo, reportRepo, dispatcher, notificationRepo, cfg.Notify.TipHour, log,
		)
		go tipScheduler.Run(schedulerCtx)
		log.Info("Notification scheduler enabled", zap.Int("tip_hour", cfg.Notify.TipHour))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, security headers, CORS, body limit, rate limiting.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Register API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewScamHandler(searchService)).
		Register(handler.NewCacheHandler(resultCache)).
		Register(handler.NewZaloHandler(webhookService, broadcastService, zaloClient, cfg.Zalo.WebhookSecret, log)).
		Register(handler.NewNotificationHandler(broadcastService)).
		Register(handler.NewReportHandler(reportService)).
		Register(handler.NewSystemHandler(dbPinger{db})).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// dbPinger adapts the database to the context-aware health check.
type dbPinger struct {
	db *persistence.Database
}

func (p dbPinger) Ping(_ context.Context) error {
	return p.db.Ping()
}

// healthHandler returns a handler for the root health check endpoint
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
