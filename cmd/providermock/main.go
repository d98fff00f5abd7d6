// Command providermock serves the FastPay and SecurePay wire contracts for
// local runs of the gateway.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"payflow/internal/config"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	registerRoutes(e)

	addr := fmt.Sprintf(":%d", cfg.Mock.Port)
	go func() {
		logger.Info("Starting provider mock", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Mock stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Mock forced to shutdown", zap.Error(err))
	}
}

func registerRoutes(e *echo.Echo) {
	e.POST("/fastpay/payments", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"id":            "FP-884512",
			"status":        "approved",
			"status_detail": "Pagamento aprovado",
		})
	})
	e.POST("/securepay/transactions", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"transaction_id": "SP-19283",
			"result":         "success",
		})
	})
}
