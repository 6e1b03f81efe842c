package absence

import (
	"go-roster/internal/middleware"
	"go-roster/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	absences := r.Group("/absences")
	absences.Use(middleware.AuthMiddleware())
	{
		absences.GET("", middleware.RBACAuthorize(rbacService, "absence", "read"), handler.GetAll)
		absences.GET("/:id", middleware.RBACAuthorize(rbacService, "absence", "read"), handler.GetById)
		absences.POST("", middleware.RBACAuthorize(rbacService, "absence", "write"), handler.Create)
		absences.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "absence", "approve"), handler.Approve)
		absences.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "absence", "approve"), handler.Reject)
		absences.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "absence", "write"), handler.Cancel)
	}

	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.RBACAuthorize(rbacService, "holiday", "read"), handler.GetHolidays)
		holidays.POST("", middleware.RBACAuthorize(rbacService, "holiday", "write"), handler.CreateHoliday)
		holidays.DELETE("/:id", middleware.RBACAuthorize(rbacService, "holiday", "write"), handler.DeleteHoliday)
	}
}
