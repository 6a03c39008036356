package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hotelops/backend/internal/infrastructure/auth"
	"github.com/hotelops/backend/internal/interfaces/http/handler"
	"github.com/hotelops/backend/internal/interfaces/http/middleware"
)

// NewCashdeskRoutes builds the /cashdesk route group. Every route needs an
// authenticated caller; mutations are further limited by role.
func NewCashdeskRoutes(drawers *handler.DrawerHandler, shifts *handler.ShiftHandler) *DomainGroup {
	anyRole := middleware.RequireRole(auth.RoleCashier, auth.RoleManager)
	cashier := middleware.RequireRole(auth.RoleCashier)
	manager := middleware.RequireRole(auth.RoleManager)

	cashdesk := NewDomainGroup("cashdesk", "/cashdesk")

	cashdesk.Group("drawers", "/drawers").
		POST("", manager, drawers.Create).
		GET("", anyRole, drawers.List).
		GET("/:id", anyRole, drawers.GetByID).
		PUT("/:id", manager, drawers.Update).
		POST("/:id/activate", manager, drawers.Activate).
		POST("/:id/deactivate", manager, drawers.Deactivate).
		POST("/:id/shifts", cashier, shifts.Start)

	cashdesk.Group("shifts", "/shifts").
		GET("", anyRole, shifts.List).
		GET("/current", cashier, shifts.Current).
		GET("/:id", anyRole, shifts.GetByID).
		GET("/:id/summary", anyRole, shifts.Summary).
		GET("/:id/report", anyRole, shifts.ExportReport).
		GET("/:id/report/archive", anyRole, shifts.ArchivedReport).
		GET("/:id/transactions", anyRole, shifts.ListTransactions).
		POST("/:id/transactions", cashier, shifts.RecordTransaction).
		POST("/:id/close", cashier, shifts.Close).
		POST("/:id/approve", manager, shifts.Approve).
		POST("/:id/reject", manager, shifts.Reject).
		POST("/:id/adjust", manager, shifts.Adjust)

	return cashdesk
}

// NewSystemRoutes builds the unauthenticated system endpoints
func NewSystemRoutes(system *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "").
		GET("/health", system.Health).
		GET("/system/info", system.GetSystemInfo).
		GET("/system/ping", system.Ping)
}

// HealthRoute mounts the liveness check at the root path as well
func HealthRoute(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/health", system.Health)
}
