package leavetype

import (
	"github.com/gin-gonic/gin"

	"github.com/parryG11/hr/internal/middleware"
	"github.com/parryG11/hr/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	leaveTypes := r.Group("/leave-types")
	leaveTypes.Use(middleware.AuthMiddleware())
	{
		leaveTypes.GET("", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetAll)
		leaveTypes.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetById)
		leaveTypes.POST("", middleware.RBACAuthorize(rbacService, "leave_type", "create"), handler.Create)
	}
}
