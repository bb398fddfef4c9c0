package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is the unauthenticated liveness probe.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
