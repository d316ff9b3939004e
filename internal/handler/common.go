package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"hotel-lead-crm/internal/repository"
)

// fail writes the standard error envelope. The message is the only detail a
// client ever sees; server-side context goes to the logs.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// actorFrom extracts the authenticated actor injected by the JWT middleware.
func actorFrom(c echo.Context) (repository.Actor, error) {
	id, okID := c.Get("user_id").(int64)
	role, okRole := c.Get("role").(string)
	if !okID || !okRole || id == 0 {
		return repository.Actor{}, errors.New("no authenticated actor in context")
	}
	return repository.Actor{ID: id, Role: role}, nil
}

// pathID parses the :id route parameter as a positive integer.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// queryCtx derives the per-statement context from the request, bounded by
// the configured default query timeout.
func queryCtx(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(c.Request().Context(), timeout)
}

// Health responds 200 for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
