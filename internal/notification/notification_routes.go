package notification

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parryG11/hr/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	notifications.Use(middleware.ExtractUserID())
	notifications.Use(middleware.ContextLogger(logger))
	{
		notifications.GET("", middleware.RateLimitByUser(5, 20), handler.ListMine)
		notifications.GET("/unread-count", middleware.RateLimitByUser(5, 20), handler.UnreadCount)
		notifications.PATCH("/:id/read", middleware.RateLimitByUser(5, 20), handler.MarkRead)
		notifications.PATCH("/read-all", middleware.RateLimitByUser(1, 5), handler.MarkAllRead)
	}
}
