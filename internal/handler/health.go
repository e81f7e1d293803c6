package handler // declare the package name; contains HTTP handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"message":   "Cultural Events Venue Locator Backend",
	})
}
