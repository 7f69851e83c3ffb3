package transferform

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
	forms := r.Group("/transfer-forms")
	forms.Use(middleware.AuthMiddleware())
	{
		forms.POST("", handler.Create)
		forms.GET("/me", handler.GetMine)
		forms.PUT("/:id/amend", handler.Amend)
		forms.POST("/:id/comments", handler.AddComment)

		forms.GET("", middleware.RBACAuthorize(rbacService, "transfer_form", "read"), handler.GetAll)
		forms.GET("/:id", middleware.RBACAuthorize(rbacService, "transfer_form", "read"), handler.GetById)
		forms.POST("/:id/transition", middleware.RBACAuthorize(rbacService, "transfer_form", "update"), handler.Transition)
	}
}
