package order

import (
	"shelfmarket/internal/middleware"
	"shelfmarket/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("/checkout", middleware.Idempotency(rdb), handler.Checkout)
		orders.GET("/me", handler.GetMine)

		orders.GET("", middleware.RBACAuthorize(rbacService, "order", "read"), handler.GetAll)
		orders.GET("/:id", middleware.RBACAuthorize(rbacService, "order", "read"), handler.GetById)
		orders.POST("/:id/transition", middleware.RBACAuthorize(rbacService, "order", "update"), handler.Transition)
		orders.POST("/:id/refund", middleware.RBACAuthorize(rbacService, "order", "update"), handler.Refund)
	}
}
