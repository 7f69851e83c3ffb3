package wallet

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
	wallets := r.Group("/wallets")
	wallets.Use(middleware.AuthMiddleware())
	{
		wallets.GET("/me", handler.GetMine)
		wallets.GET("/me/transactions", handler.MyTransactions)
		wallets.POST("/me/deposit", middleware.Idempotency(rdb), handler.Deposit)

		wallets.GET("", middleware.RBACAuthorize(rbacService, "wallet", "read"), handler.GetAll)
		wallets.GET("/:userId", middleware.RBACAuthorize(rbacService, "wallet", "read"), handler.GetByUser)
		wallets.POST("/:userId/freeze", middleware.RBACAuthorize(rbacService, "wallet", "update"), handler.Freeze)
		wallets.POST("/:userId/unfreeze", middleware.RBACAuthorize(rbacService, "wallet", "update"), handler.Unfreeze)
	}
}
