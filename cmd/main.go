package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"payflow/internal/bootstrap"
	"payflow/internal/config"
	cronpkg "payflow/internal/cron"
	"payflow/internal/handler/api"
	"payflow/internal/middleware"
	"payflow/internal/payment"
	"payflow/internal/repository"
	"payflow/internal/router"
	"payflow/internal/stats"
)

func main() {
	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Database (request logs, optional) ---
	db, err := config.NewDatabase(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	var (
		apiLogs  *middleware.APILogSink
		logStore cronpkg.APILogStore
	)
	if db != nil {
		if err := bootstrap.Migrate(db); err != nil {
			logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
		}
		repo := repository.NewAPILogRepository(db)
		apiLogs = middleware.NewAPILogSink(repo, cfg.APILog.QueueSize, cfg.APILog.Workers, logger)
		apiLogs.Start()
		logStore = repo
	}

	// --- Stats (Redis with in-memory fallback) ---
	recorder, statsErr := stats.NewRecorder(cfg.Redis.Addr, cfg.Redis.Pass, cfg.Redis.DB)
	if statsErr != nil {
		logger.Warn("Redis unavailable for stats, using in-memory fallback", zap.Error(statsErr))
	}

	// --- Payment providers ---
	providers := cfg.Providers
	orchestrator := payment.NewOrchestrator(logger,
		payment.NewFastPayGateway(providers.FastPayURL, payment.FastPayOptions{
			PayerEmail:   providers.FastPay.PayerEmail,
			Installments: providers.FastPay.Installments,
			Description:  providers.FastPay.Description,
		}, providers.Timeout),
		payment.NewSecurePayGateway(providers.SecurePayURL, providers.Timeout),
	)
	if providers.FastPayURL == "" || providers.SecurePayURL == "" {
		logger.Warn("Provider endpoints incomplete, payments will fail with a configuration error",
			zap.Bool("fastpay", providers.FastPayURL != ""),
			zap.Bool("securepay", providers.SecurePayURL != ""))
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true
	router.Setup(e, api.NewPaymentHandler(orchestrator, recorder, logger), apiLogs, logger)

	// --- Cron Scheduler ---
	scheduler := cronpkg.New(logStore, recorder, cfg.APILog.Retention, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting PayFlow server", zap.String("addr", addr), zap.Duration("provider_timeout", providers.Timeout))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop cron
	<-scheduler.Stop().Done()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Flush queued request logs
	if apiLogs != nil {
		apiLogs.Close()
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
