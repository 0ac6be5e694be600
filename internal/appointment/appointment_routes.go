package appointment

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/parryG11/hr/internal/middleware"
	"github.com/parryG11/hr/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	appointments := r.Group("/appointments")
	appointments.Use(middleware.AuthMiddleware())
	appointments.Use(middleware.ContextLogger(logger))
	{
		appointments.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "appointment", "read"),
			handler.GetAll,
		)

		appointments.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "appointment", "read"),
			handler.GetById,
		)

		appointments.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "appointment", "create"),
			handler.Create,
		)

		appointments.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "appointment", "update"),
			handler.Update,
		)

		appointments.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "appointment", "delete"),
			handler.Delete,
		)
	}
}
