package coupon

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
	r.POST("/coupons/validate", handler.Validate)

	coupons := r.Group("/coupons")
	coupons.Use(middleware.AuthMiddleware())
	{
		coupons.GET("", middleware.RBACAuthorize(rbacService, "coupon", "read"), handler.GetAll)
		coupons.POST("", middleware.RBACAuthorize(rbacService, "coupon", "create"), handler.Create)
		coupons.PUT("/:id", middleware.RBACAuthorize(rbacService, "coupon", "update"), handler.Update)
		coupons.DELETE("/:id", middleware.RBACAuthorize(rbacService, "coupon", "delete"), handler.Delete)
	}
}
