package fee

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
	// Quote is used by the checkout page before the buyer is committed.
	r.POST("/fees/quote", handler.Quote)

	fees := r.Group("/fees")
	fees.Use(middleware.AuthMiddleware())
	{
		fees.GET("", middleware.RBACAuthorize(rbacService, "fee", "read"), handler.GetAll)
		fees.POST("", middleware.RBACAuthorize(rbacService, "fee", "create"), handler.Create)
		fees.PUT("/:id", middleware.RBACAuthorize(rbacService, "fee", "update"), handler.Update)
		fees.DELETE("/:id", middleware.RBACAuthorize(rbacService, "fee", "delete"), handler.Delete)
	}
}
