package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pokeexplorer/backend/pkg/metrics"
)

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pokeexplorer-api",
	})
}

// Metrics serves all counters in Prometheus text format.
func Metrics(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	metrics.WritePrometheus(c.Response())
	return nil
}
