package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotel-lead-crm/internal/config"
	"hotel-lead-crm/internal/logger"
	"hotel-lead-crm/internal/repository"
)

// DashboardHandler aggregates the summary counters and the recent-activity
// feed. Admins see global numbers; regular users see only their own slice.
type DashboardHandler struct {
	Cfg  config.Config
	Dash *repository.DashboardRepo
}

func NewDashboardHandler(cfg config.Config, d *repository.DashboardRepo) *DashboardHandler {
	return &DashboardHandler{Cfg: cfg, Dash: d}
}

// Get runs the summary and activity queries concurrently. Either failing
// fails the whole request; a partial dashboard is worse than an error.
func (h *DashboardHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	var (
		summary    repository.Summary
		activities []repository.Activity
	)
	g, gctx := errgroup.WithContext(ctx)
	if actor.IsAdmin() {
		g.Go(func() error {
			var err error
			summary, err = h.Dash.AdminSummary(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			activities, err = h.Dash.AdminRecentActivity(gctx)
			return err
		})
	} else {
		g.Go(func() error {
			var err error
			summary, err = h.Dash.UserSummary(gctx, actor.ID)
			return err
		})
		g.Go(func() error {
			var err error
			activities, err = h.Dash.UserRecentActivity(gctx, actor.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.FromEcho(c).Error("dashboard aggregation failed", zap.Error(err), zap.Int64("user_id", actor.ID))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"dashboard": echo.Map{
			"summary":          summary,
			"recentActivities": activities,
		},
	})
}
