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

	"golang-invest-backoffice/internal/backoffice/config"
	delivery "golang-invest-backoffice/internal/backoffice/delivery/http"
	"golang-invest-backoffice/internal/backoffice/repository"
	"golang-invest-backoffice/internal/backoffice/service"
	"golang-invest-backoffice/pkg/logger"
	"golang-invest-backoffice/pkg/postgres"
	"golang-invest-backoffice/pkg/redis"
	"golang-invest-backoffice/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the investment back office service",
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

	appLogger.Info("Starting Investment Back Office Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
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

	// Initialize Redis (quote cache)
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
	store := repository.NewStore(db.DB)
	quoteRepo := repository.NewYahooFinanceRepository(cfg, appLogger, redisClient)

	// Initialize optional telegram notifier for run summaries
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	pricingSvc := service.NewPricingService(quoteRepo, appLogger)
	aggregator := service.NewPortfolioAggregator(store.Holdings, store.Portfolios, appLogger)
	tradeSvc, err := service.NewTradeService(store, quoteRepo, appLogger, cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize trade service", logger.ErrorField(err))
	}
	portfolioSvc := service.NewPortfolioService(store.Repositories, aggregator, appLogger)
	revaluationSvc := service.NewRevaluationService(store.Repositories, quoteRepo, pricingSvc, aggregator, appLogger, notifier)
	schedulerSvc := service.NewSchedulerService(revaluationSvc, appLogger, cfg.Revaluation.Schedule)

	// Start revaluation scheduler
	go func() {
		if err := schedulerSvc.Start(ctx); err != nil {
			appLogger.Error("Revaluation scheduler failed to start", logger.ErrorField(err))
		}
	}()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	tradeHandler := delivery.NewTradeHandler(tradeSvc, appLogger)
	tradeHandler.RegisterRoutes(apiV1.Group("/trades"))

	portfolioHandler := delivery.NewPortfolioHandler(portfolioSvc, appLogger)
	portfolioHandler.RegisterRoutes(apiV1.Group("/portfolios"))
	portfolioHandler.RegisterTransactionRoutes(apiV1.Group("/transactions"))

	revaluationHandler := delivery.NewRevaluationHandler(revaluationSvc, appLogger)
	revaluationHandler.RegisterRoutes(apiV1.Group("/revaluations"))

	e.GET("/swagger/*", swagger.WrapHandler)

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

// @title Investment Back Office API
// @version 1.0
// @description Valuation and accrual engine for investment portfolios.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "backoffice-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing backoffice-service CLI: %s\n", err)
		os.Exit(1)
	}
}
