package routes

import (
	"sitepass/api/handler"
	"sitepass/api/middleware"
	"sitepass/internal/entity"
	"sitepass/internal/ratelimit"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Visitors       *handler.VisitorHandler
	Vehicles       *handler.VehicleHandler
	Employees      *handler.EmployeeHandler
	Approvals      *handler.ApprovalHandler
	AuthMiddleware middleware.AuthMiddleware
	LoginLimiter   ratelimit.Store
	PublicLimiter  ratelimit.Store
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	requireAuth := r.AuthMiddleware.RequireAuth

	staff := middleware.RequireRole(
		entity.UserRoleAdmin,
		entity.UserRoleSecurityGuard,
		entity.UserRoleReceptionist,
	)
	frontDesk := middleware.RequireRole(entity.UserRoleAdmin, entity.UserRoleReceptionist)
	gate := middleware.RequireRole(entity.UserRoleAdmin, entity.UserRoleSecurityGuard)
	admin := middleware.RequireRole(entity.UserRoleAdmin)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	e.POST("/auth/login", r.Auth.Login, middleware.RateLimit(r.LoginLimiter))
	e.POST("/auth/login/mfa", r.Auth.LoginWithMFA, middleware.RateLimit(r.LoginLimiter))
	e.POST("/auth/refresh", r.Auth.Refresh, middleware.RateLimit(r.PublicLimiter))
	e.GET("/me", r.Auth.Me, requireAuth)
	e.POST("/me/password", r.Auth.ChangePassword, requireAuth)
	e.POST("/me/mfa/enable", r.Auth.EnableMFA, requireAuth)
	e.POST("/me/mfa/verify", r.Auth.VerifyMFA, requireAuth)
	e.POST("/me/mfa/disable", r.Auth.DisableMFA, requireAuth)
	e.GET("/users/:id", r.Auth.GetUser, requireAuth, middleware.RequireSelfOrAdmin("id"))

	// Magic-link approvals are unauthenticated by design.
	e.GET("/approvals", r.Approvals.Handle, middleware.RateLimit(r.PublicLimiter))

	e.POST("/visitors", r.Visitors.Create, middleware.RateLimit(r.PublicLimiter))
	e.GET("/visitors", r.Visitors.List, requireAuth, staff)
	e.GET("/visitors/:id", r.Visitors.Get, requireAuth, staff)
	e.POST("/visitors/:id/approve", r.Visitors.Approve, requireAuth, frontDesk)
	e.POST("/visitors/:id/reject", r.Visitors.Reject, requireAuth, frontDesk)
	e.POST("/visitors/:id/check-in", r.Visitors.CheckIn, requireAuth, gate)
	e.POST("/visitors/:id/check-out", r.Visitors.CheckOut, requireAuth, gate)
	e.DELETE("/visitors/:id", r.Visitors.Delete, requireAuth, frontDesk)
	e.GET("/visitors/:id/qr.png", r.Visitors.QRImage, requireAuth, staff)

	e.POST("/vehicles", r.Vehicles.Create, requireAuth, gate)
	e.GET("/vehicles", r.Vehicles.List, requireAuth, staff)
	e.GET("/vehicles/summary", r.Vehicles.Summary, requireAuth, staff)
	e.GET("/vehicles/:id", r.Vehicles.Get, requireAuth, staff)
	e.POST("/vehicles/:id/movements", r.Vehicles.RecordMovement, requireAuth, gate)
	e.GET("/vehicles/:id/movements", r.Vehicles.Movements, requireAuth, staff)
	e.GET("/vehicles/:id/presence", r.Vehicles.Presence, requireAuth, staff)

	e.POST("/employees", r.Employees.Create, requireAuth, admin)
	e.GET("/employees", r.Employees.List, requireAuth, staff)

	e.POST("/admin/users", r.Auth.AdminCreateUser, requireAuth, admin)
	e.GET("/admin/users", r.Auth.AdminListUsers, requireAuth, admin)
	e.GET("/admin/access-logs", r.Auth.AdminListAccessLogs, requireAuth, admin)
}
