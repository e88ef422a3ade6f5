package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// HealthHandler runs the configured dependency checks
type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthCheck responds 200 when every check passes and 503 otherwise
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("check", name).Msg("health check failed")
			results[name] = "down"
			status = "unhealthy"
			continue
		}
		results[name] = "up"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, echo.Map{"status": status, "checks": results})
}
