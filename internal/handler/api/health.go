package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	xhttp "CryptoDash/pkg/http"
)

// HealthHandler pings infrastructure. Only required checks turn the answer
// into 503; optional ones (cache, analytics) are reported as degraded.
type HealthHandler struct {
	required map[string]HealthChecker
	optional map[string]HealthChecker
	timeout  time.Duration
}

func NewHealthHandler(required, optional map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{required: required, optional: optional, timeout: 2 * time.Second}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status := "ok"
	checks := make(map[string]string, len(h.required)+len(h.optional))
	for name, chk := range h.required {
		if chk == nil {
			continue
		}
		if err := chk.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = "down"
			continue
		}
		checks[name] = "ok"
	}
	for name, chk := range h.optional {
		if chk == nil {
			continue
		}
		if err := chk.Ping(ctx); err != nil {
			checks[name] = err.Error()
			if status == "ok" {
				status = "degraded"
			}
			continue
		}
		checks[name] = "ok"
	}

	code := http.StatusOK
	if status == "down" {
		code = http.StatusServiceUnavailable
	}
	return xhttp.DataResponse(c, code, map[string]interface{}{
		"status": status,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}
