package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"payflow/internal/models"
	"payflow/internal/payment"
	"payflow/internal/stats"
)

// PaymentProcessor runs one payment through the gateway.
type PaymentProcessor interface {
	Process(ctx context.Context, req models.PaymentRequest) (*models.CanonicalResponse, error)
}

// PaymentHandler serves the payments API.
type PaymentHandler struct {
	processor PaymentProcessor
	stats     stats.Recorder
	logger    *zap.Logger
}

func NewPaymentHandler(processor PaymentProcessor, recorder stats.Recorder, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{processor: processor, stats: recorder, logger: logger}
}

// Create handles POST /payments.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req models.PaymentRequest
	if err := c.Bind(&req); err != nil {
		h.record(c, stats.Rejected)
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.processor.Process(c.Request().Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, payment.ErrInvalidRequest):
		h.record(c, stats.Rejected)
		return errorResponse(c, http.StatusBadRequest, "Invalid amount or currency")
	case errors.Is(err, payment.ErrConfigurationMissing):
		h.logger.Error("Payment provider not configured", zap.Error(err))
		h.record(c, stats.Misconfigured)
		return errorResponse(c, http.StatusInternalServerError, "Payment providers are not configured")
	case errors.Is(err, payment.ErrAllProvidersUnavailable):
		h.logger.Error("Provider call failed", zap.Error(err))
		h.record(c, stats.AllFailed)
		return errorResponse(c, http.StatusBadGateway, "Provider call failed")
	default:
		h.logger.Error("Payment processing failed", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Internal error")
	}

	outcomes := []stats.Outcome{stats.RoutedFastPay}
	if resp.Provider == payment.SecurePay.String() {
		outcomes[0] = stats.RoutedSecurePay
	}
	if primary, _ := payment.Route(req.Amount); resp.Provider != primary.String() {
		outcomes = append(outcomes, stats.FallbackUsed)
	}
	h.record(c, outcomes...)

	return c.JSON(http.StatusOK, resp)
}

// Stats handles GET /stats.
func (h *PaymentHandler) Stats(c echo.Context) error {
	if h.stats == nil {
		return errorResponse(c, http.StatusServiceUnavailable, "Stats are disabled")
	}
	snap, err := h.stats.Snapshot(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to read stats", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to read stats")
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *PaymentHandler) record(c echo.Context, outcomes ...stats.Outcome) {
	if h.stats == nil {
		return
	}
	if err := h.stats.Record(c.Request().Context(), outcomes...); err != nil {
		h.logger.Warn("Failed to record stats", zap.Error(err))
	}
}
