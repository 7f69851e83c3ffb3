package app

import (
	"database/sql"
	"path/filepath"

	"shelfmarket/internal/auth"
	"shelfmarket/internal/catalog"
	"shelfmarket/internal/company"
	"shelfmarket/internal/coupon"
	"shelfmarket/internal/fee"
	"shelfmarket/internal/invoice"
	"shelfmarket/internal/messaging/kafka"
	"shelfmarket/internal/order"
	"shelfmarket/internal/rbac"
	"shelfmarket/internal/rbac/infra"
	"shelfmarket/internal/serviceorder"
	"shelfmarket/internal/shared/counter"
	"shelfmarket/internal/transferform"
	"shelfmarket/internal/user"
	"shelfmarket/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	couponRepo := coupon.NewRepository(gormDB)
	feeRepo := fee.NewRepository(gormDB)
	invoiceRepo := invoice.NewRepository(gormDB)
	orderRepo := order.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	serviceOrderRepo := serviceorder.NewRepository(gormDB)
	transferFormRepo := transferform.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	walletRepo := wallet.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService)
	catalogService := catalog.NewService(catalogRepo, rdb)
	companyService := company.NewService(db, companyRepo)
	couponService := coupon.NewService(couponRepo)
	feeService := fee.NewService(feeRepo)
	invoiceService := invoice.NewService(db, invoiceRepo, counterRepo)
	orderService := order.NewService(db, orderRepo, companyRepo, walletRepo, couponService, feeService, counterRepo, outboxRepo, rdb)
	serviceOrderService := serviceorder.NewService(db, serviceOrderRepo, catalogService, walletRepo, counterRepo)
	transferFormService := transferform.NewService(db, transferFormRepo, orderRepo, companyRepo, outboxRepo)
	userService := user.NewService(userRepo, rbacService)
	walletService := wallet.NewService(db, walletRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	companyHandler := company.NewHandlerWithRedis(companyService, rdb)
	couponHandler := coupon.NewHandler(couponService)
	feeHandler := fee.NewHandler(feeService)
	invoiceHandler := invoice.NewHandler(invoiceService)
	orderHandler := order.NewHandler(orderService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)
	serviceOrderHandler := serviceorder.NewHandler(serviceOrderService)
	transferFormHandler := transferform.NewHandler(transferFormService)
	userHandler := user.NewHandler(userService)
	walletHandler := wallet.NewHandlerWithRedis(walletService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		catalog.RegisterRoutes(api, catalogHandler, rbacService)
		company.RegisterRoutes(api, companyHandler, rbacService)
		coupon.RegisterRoutes(api, couponHandler, rbacService)
		fee.RegisterRoutes(api, feeHandler, rbacService)
		invoice.RegisterRoutes(api, invoiceHandler, rbacService)
		order.RegisterRoutes(api, orderHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
		serviceorder.RegisterRoutes(api, serviceOrderHandler, rbacService)
		transferform.RegisterRoutes(api, transferFormHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService, zap.L())
		wallet.RegisterRoutes(api, walletHandler, rbacService, rdb)
	}

	return nil
}
