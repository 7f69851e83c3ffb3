package serviceorder

import (
	"shelfmarket/internal/middleware"
	"shelfmarket/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	orders := r.Group("/service-orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", handler.Place)
		orders.GET("/me", handler.GetMine)

		orders.GET("", middleware.RBACAuthorize(rbacService, "service_order", "read"), handler.GetAll)
		orders.GET("/:id", middleware.RBACAuthorize(rbacService, "service_order", "read"), handler.GetById)
		orders.POST("/:id/transition", middleware.RBACAuthorize(rbacService, "service_order", "update"), handler.Transition)
	}
}
