package balance

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parryG11/hr/internal/middleware"
	"github.com/parryG11/hr/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	balances.Use(middleware.ContextLogger(logger))
	{
		balances.PUT("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_balance", "allocate"),
			handler.Allocate,
		)

		balances.GET("/employees/:employeeId",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_balance", "read"),
			handler.ListByEmployee,
		)

		balances.GET("/employees/:employeeId/types/:leaveTypeId",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_balance", "read"),
			handler.Get,
		)
	}
}
