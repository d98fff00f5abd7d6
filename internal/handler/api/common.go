package api

import (
	"github.com/labstack/echo/v4"

	"payflow/internal/models"
)

// errorResponse writes the {error} envelope used by every endpoint.
func errorResponse(c echo.Context, status int, msg string) error {
	return c.JSON(status, models.ErrorResponse{Error: msg})
}
