package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atlasbourse/internal/market/config"
	delivery "atlasbourse/internal/market/delivery/http"
	"atlasbourse/internal/market/metrics"
	"atlasbourse/internal/market/repository"
	"atlasbourse/internal/market/service"
	"atlasbourse/pkg/logger"
	"atlasbourse/pkg/postgres"
	"atlasbourse/pkg/redis"
	"atlasbourse/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the trading API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Trading API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	stockRepo := repository.NewStockRepository(db.DB)
	portfolioRepo := repository.NewPortfolioRepository(db.DB)
	transactionRepo := repository.NewTransactionRepository(db.DB)
	cashOperationRepo := repository.NewCashOperationRepository(db.DB)
	quoteRepo, err := repository.NewQuoteRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize quote repository", logger.ErrorField(err))
	}

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	// Initialize services
	appMetrics := metrics.New()
	sessions := service.NewRedisSessionStore(redisClient)
	authSvc := service.NewAuthService(cfg, userRepo, portfolioRepo, sessions, appLogger)
	marketDataSvc := service.NewMarketDataService(cfg, stockRepo, quoteRepo, appMetrics, appLogger)
	stockSvc := service.NewStockService(stockRepo, marketDataSvc, appLogger)
	portfolioSvc := service.NewPortfolioService(cfg, portfolioRepo, stockRepo, quoteRepo,
		transactionRepo, cashOperationRepo, appMetrics, telegramNotifier, appLogger)

	// Schedule the background catalog refresh
	refreshCron := cron.New()
	cronSpec := cfg.Market.RefreshCron
	if cronSpec == "" {
		cronSpec = "@every 1m"
	}
	if _, err := refreshCron.AddFunc(cronSpec, func() {
		if _, _, err := marketDataSvc.RefreshIfStale(context.Background()); err != nil {
			appLogger.Error("Scheduled price refresh failed", logger.ErrorField(err))
		}
	}); err != nil {
		appLogger.Fatal("Invalid refresh cron spec", logger.ErrorField(err))
	}
	refreshCron.Start()
	defer refreshCron.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	authHandler := delivery.NewAuthHandler(authSvc, appLogger)
	authHandler.RegisterRoutes(apiV1.Group("/auth"))

	protected := apiV1.Group("", delivery.SessionMiddleware(authSvc, appLogger))

	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	stockHandler.RegisterRoutes(protected.Group("/stocks"))

	portfolioHandler := delivery.NewPortfolioHandler(portfolioSvc, appLogger)
	portfolioHandler.RegisterRoutes(protected)

	cashHandler := delivery.NewCashHandler(portfolioSvc, appLogger)
	cashHandler.RegisterRoutes(protected.Group("/cash"))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
