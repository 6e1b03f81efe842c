package preset

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
	presets := r.Group("/presets")
	presets.Use(middleware.AuthMiddleware())
	{
		presets.GET("", middleware.RBACAuthorize(rbacService, "preset", "read"), handler.GetAll)
		presets.GET("/:id", middleware.RBACAuthorize(rbacService, "preset", "read"), handler.GetById)
		presets.POST("", middleware.RBACAuthorize(rbacService, "preset", "write"), handler.Create)
		presets.PUT("/:id", middleware.RBACAuthorize(rbacService, "preset", "write"), handler.Update)
		presets.POST("/:id/activate", middleware.RBACAuthorize(rbacService, "preset", "write"), handler.Activate)
		presets.DELETE("/:id", middleware.RBACAuthorize(rbacService, "preset", "write"), handler.Delete)
	}
}
