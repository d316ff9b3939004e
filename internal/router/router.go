package router

import (
	"github.com/labstack/echo/v4"

	"hotel-lead-crm/internal/handler"
	"hotel-lead-crm/internal/middleware"
	"hotel-lead-crm/internal/model"
)

// RegisterRoutes wires the unauthenticated surface.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires login and token lifecycle, plus /api/me behind auth.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, secret string) {
	a := e.Group("/api/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/refresh-access", h.RefreshAccess)
	a.POST("/logout", h.Logout)

	e.GET("/api/me", h.Me, middleware.JWTAuth(secret))
}

// RegisterHotels wires the hotel CRUD and the dashboard for any
// authenticated role. Row-level scoping happens in the repository.
func RegisterHotels(e *echo.Echo, h *handler.HotelHandler, d *handler.DashboardHandler, secret string) {
	g := e.Group("/api",
		middleware.JWTAuth(secret),
		middleware.RequireRole(model.RoleAdmin, model.RoleUser),
	)
	g.POST("/hotels", h.Add)
	g.GET("/hotels", h.List)
	g.GET("/hotels/:id", h.GetByID)
	g.PUT("/hotels/:id", h.Update)
	g.DELETE("/hotels/:id", h.Delete)
	g.PATCH("/hotels/:id/restore", h.Restore)

	g.GET("/dashboard", d.Get)
}

// RegisterAdmin wires the admin-only user management and export surface.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, secret string) {
	g := e.Group("/api/admin",
		middleware.JWTAuth(secret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/users", h.GetAllUsers)
	g.POST("/users", h.CreateUser)
	g.GET("/users/:id", h.GetUserByID)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.SoftDeleteUser)
	g.PATCH("/users/:id/recover", h.RecoverUser)

	g.GET("/hotels-export", h.ExportHotels)
}
