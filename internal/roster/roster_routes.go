package roster

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
	rosters := r.Group("/rosters")
	rosters.Use(middleware.AuthMiddleware())
	{
		rosters.POST("", middleware.RBACAuthorize(rbacService, "roster", "write"), handler.Generate)
		rosters.GET("", middleware.RBACAuthorize(rbacService, "roster", "read"), handler.List)
		rosters.GET("/:week", middleware.RBACAuthorize(rbacService, "roster", "read"), handler.Get)
		rosters.POST("/:week/fix", middleware.RBACAuthorize(rbacService, "roster", "write"), handler.FixPosition)
	}
}
