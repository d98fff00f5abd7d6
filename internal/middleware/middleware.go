package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"payflow/internal/models"
)

const requestIDHeader = "X-Request-Id"

// APILogWriter persists request logs.
type APILogWriter interface {
	Create(ctx context.Context, entry *models.APILog) error
}

// RequestID assigns a request id, reusing the caller's X-Request-Id if present.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(requestIDHeader, id)
			return next(c)
		}
	}
}

// RequestLogger writes one structured log line per request.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			requestID, _ := c.Get("request_id").(string)
			logger.Info("Request handled",
				zap.String("request_id", requestID),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			)
			return nil
		}
	}
}

// APILogger stores every request in the api_logs table through sink.
// Writes are async and never fail the request.
func APILogger(sink *APILogSink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sink == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			requestID, _ := c.Get("request_id").(string)
			entry := &models.APILog{
				RequestID: requestID,
				Method:    c.Request().Method,
				Path:      c.Request().URL.Path,
				Status:    c.Response().Status,
				LatencyMs: time.Since(start).Milliseconds(),
				IP:        c.RealIP(),
				CreatedAt: start,
			}
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					entry.Status = he.Code
				} else {
					entry.Status = http.StatusInternalServerError
				}
			}

			sink.Enqueue(entry)
			return err
		}
	}
}

// CORS configures CORS headers.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Access-Control-Allow-Origin", "*")
			c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}
