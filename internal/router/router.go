package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"payflow/internal/handler/api"
	"payflow/internal/middleware"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	paymentHandler *api.PaymentHandler,
	apiLogs *middleware.APILogSink,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.CORS())
	e.Use(middleware.APILogger(apiLogs))

	e.POST("/payments", paymentHandler.Create)
	e.GET("/stats", paymentHandler.Stats)

	// Health check
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "PayFlow.Api"})
	})
}
