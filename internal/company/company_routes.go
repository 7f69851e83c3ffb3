package company

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
	// Public storefront
	r.GET("/companies/available", handler.ListAvailable)

	companies := r.Group("/companies")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("", middleware.RBACAuthorize(rbacService, "company", "read"), handler.GetAll)
		companies.GET("/reminders", middleware.RBACAuthorize(rbacService, "company", "read"), handler.RenewalReminders)
		companies.GET("/:id", middleware.RBACAuthorize(rbacService, "company", "read"), handler.GetById)
		companies.POST("", middleware.RBACAuthorize(rbacService, "company", "create"), handler.Create)
		companies.PUT("/:id", middleware.RBACAuthorize(rbacService, "company", "update"), handler.Update)
		companies.DELETE("/:id", middleware.RBACAuthorize(rbacService, "company", "delete"), handler.Delete)

		companies.POST("/:id/auto-status", middleware.RBACAuthorize(rbacService, "company", "update"), handler.AutoUpdateStatus)
		companies.POST("/:id/renew", middleware.RBACAuthorize(rbacService, "company", "update"), handler.Renew)
		companies.POST("/:id/refund", middleware.RBACAuthorize(rbacService, "company", "update"), handler.Refund)
		companies.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "company", "update"), handler.Cancel)
		companies.POST("/:id/reactivate", middleware.RBACAuthorize(rbacService, "company", "update"), handler.Reactivate)
		companies.POST("/:id/transfer", middleware.RBACAuthorize(rbacService, "company", "update"), handler.TransferOwnership)
	}
}
