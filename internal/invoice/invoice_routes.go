package invoice

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
	invoices := r.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware())
	{
		invoices.GET("", middleware.RBACAuthorize(rbacService, "invoice", "read"), handler.GetAll)
		invoices.GET("/analytics", middleware.RBACAuthorize(rbacService, "invoice", "read"), handler.Analytics)
		invoices.GET("/:id", middleware.RBACAuthorize(rbacService, "invoice", "read"), handler.GetById)
		invoices.POST("", middleware.RBACAuthorize(rbacService, "invoice", "create"), handler.Create)
		invoices.PUT("/:id", middleware.RBACAuthorize(rbacService, "invoice", "update"), handler.Update)
		invoices.POST("/:id/transition", middleware.RBACAuthorize(rbacService, "invoice", "update"), handler.Transition)
		invoices.DELETE("/:id", middleware.RBACAuthorize(rbacService, "invoice", "delete"), handler.Delete)
	}
}
