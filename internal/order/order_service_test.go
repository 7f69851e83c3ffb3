package order_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"shelfmarket/internal/company"
	"shelfmarket/internal/coupon"
	"shelfmarket/internal/fee"
	"shelfmarket/internal/messaging/kafka"
	"shelfmarket/internal/order"
	ordererrors "shelfmarket/internal/order/errors"
	"shelfmarket/internal/wallet"
	walleterrors "shelfmarket/internal/wallet/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Hand-rolled fakes with function fields; each test overrides only the calls
// it cares about.

type fakeOrderRepo struct {
	createFn            func(ctx context.Context, o *order.Order) error
	findByIDForUpdateFn func(ctx context.Context, id string) (*order.Order, error)
	updateFn            func(ctx context.Context, o *order.Order) error
}

func (f *fakeOrderRepo) WithTx(tx *sql.Tx) order.Repository { return f }
func (f *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	if f.createFn != nil {
		return f.createFn(ctx, o)
	}
	return nil
}
func (f *fakeOrderRepo) FindAll(ctx context.Context, filter order.ListOrdersFilterRequest) ([]order.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeOrderRepo) FindByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeOrderRepo) FindByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) Update(ctx context.Context, o *order.Order) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, o)
	}
	return nil
}

type fakeCompanyRepo struct {
	findByIDForUpdateFn func(ctx context.Context, id string) (*company.Company, error)
	updateFn            func(ctx context.Context, c *company.Company) error
}

func (f *fakeCompanyRepo) WithTx(tx *sql.Tx) company.Repository { return f }
func (f *fakeCompanyRepo) Create(ctx context.Context, c *company.Company) error { return nil }
func (f *fakeCompanyRepo) FindAll(ctx context.Context, filter company.ListCompaniesFilterRequest) ([]company.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) FindByID(ctx context.Context, id string) (*company.Company, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCompanyRepo) FindByIDForUpdate(ctx context.Context, id string) (*company.Company, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCompanyRepo) FindByStatus(ctx context.Context, status string) ([]company.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) FindSweepCandidates(ctx context.Context, cutoff time.Time) ([]company.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) Update(ctx context.Context, c *company.Company) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}
func (f *fakeCompanyRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeWalletRepo struct {
	findByUserIDForUpdateFn func(ctx context.Context, userID string) (*wallet.Wallet, error)
	createFn                func(ctx context.Context, w *wallet.Wallet) error
	updateFn                func(ctx context.Context, w *wallet.Wallet) error
	createTransactionFn     func(ctx context.Context, t *wallet.Transaction) error
}

func (f *fakeWalletRepo) WithTx(tx *sql.Tx) wallet.Repository { return f }
func (f *fakeWalletRepo) Create(ctx context.Context, w *wallet.Wallet) error {
	if f.createFn != nil {
		return f.createFn(ctx, w)
	}
	return nil
}
func (f *fakeWalletRepo) FindByUserID(ctx context.Context, userID string) (*wallet.Wallet, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeWalletRepo) FindByUserIDForUpdate(ctx context.Context, userID string) (*wallet.Wallet, error) {
	if f.findByUserIDForUpdateFn != nil {
		return f.findByUserIDForUpdateFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeWalletRepo) FindAll(ctx context.Context) ([]wallet.Wallet, error) { return nil, nil }
func (f *fakeWalletRepo) Update(ctx context.Context, w *wallet.Wallet) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, w)
	}
	return nil
}
func (f *fakeWalletRepo) CreateTransaction(ctx context.Context, t *wallet.Transaction) error {
	if f.createTransactionFn != nil {
		return f.createTransactionFn(ctx, t)
	}
	return nil
}
func (f *fakeWalletRepo) FindTransactions(ctx context.Context, walletID string) ([]wallet.Transaction, error) {
	return nil, nil
}

type fakeCouponService struct {
	validateFn func(ctx context.Context, code string, currentTotal float64) (coupon.ValidationResult, error)
	redeemFn   func(ctx context.Context, id string) error
	txBound    bool
}

func (f *fakeCouponService) WithTx(tx *sql.Tx) coupon.Service {
	f.txBound = true
	return f
}
func (f *fakeCouponService) Create(ctx context.Context, req coupon.CreateCouponRequest) (coupon.CouponResponse, error) {
	return coupon.CouponResponse{}, nil
}
func (f *fakeCouponService) GetAll(ctx context.Context) ([]coupon.CouponResponse, error) {
	return nil, nil
}
func (f *fakeCouponService) Update(ctx context.Context, id string, req coupon.UpdateCouponRequest) (coupon.CouponResponse, error) {
	return coupon.CouponResponse{}, nil
}
func (f *fakeCouponService) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeCouponService) Validate(ctx context.Context, code string, currentTotal float64) (coupon.ValidationResult, error) {
	if f.validateFn != nil {
		return f.validateFn(ctx, code, currentTotal)
	}
	return coupon.ValidationResult{}, nil
}
func (f *fakeCouponService) Redeem(ctx context.Context, id string) error {
	if f.redeemFn != nil {
		return f.redeemFn(ctx, id)
	}
	return nil
}

type fakeFeeService struct {
	quoteFn func(ctx context.Context, subtotal float64) (fee.Breakdown, error)
}

func (f *fakeFeeService) Create(ctx context.Context, req fee.CreateFeeRequest) (fee.FeeResponse, error) {
	return fee.FeeResponse{}, nil
}
func (f *fakeFeeService) GetAll(ctx context.Context) ([]fee.FeeResponse, error) { return nil, nil }
func (f *fakeFeeService) Update(ctx context.Context, id string, req fee.UpdateFeeRequest) (fee.FeeResponse, error) {
	return fee.FeeResponse{}, nil
}
func (f *fakeFeeService) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeFeeService) Quote(ctx context.Context, subtotal float64) (fee.Breakdown, error) {
	if f.quoteFn != nil {
		return f.quoteFn(ctx, subtotal)
	}
	return fee.Breakdown{Subtotal: subtotal, FinalTotal: subtotal}, nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepo struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type orderDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	repo      *fakeOrderRepo
	companies *fakeCompanyRepo
	wallets   *fakeWalletRepo
	coupons   *fakeCouponService
	fees      *fakeFeeService
	outbox    *fakeOutboxRepo
	service   order.Service
}

func setupOrderService(t *testing.T) *orderDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()

	deps := &orderDeps{
		db:        db,
		sqlMock:   sqlMock,
		redisMock: redisMock,
		repo:      &fakeOrderRepo{},
		companies: &fakeCompanyRepo{},
		wallets:   &fakeWalletRepo{},
		coupons:   &fakeCouponService{},
		fees:      &fakeFeeService{},
		outbox:    &fakeOutboxRepo{},
	}
	deps.service = order.NewService(
		db,
		deps.repo,
		deps.companies,
		deps.wallets,
		deps.coupons,
		deps.fees,
		&fakeCounterRepo{},
		deps.outbox,
		rdb,
	)
	return deps
}

func availableCompany(price float64) *company.Company {
	return &company.Company{
		ID:            uuid.New(),
		Name:          "Dormant Ventures Ltd",
		Status:        company.StatusAvailable,
		PurchasePrice: price,
		Currency:      "USD",
		RenewalDate:   time.Now().AddDate(1, 0, 0),
	}
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New().String()

	t.Run("wallet payment succeeds and reserves the company", func(t *testing.T) {
		deps := setupOrderService(t)

		comp := availableCompany(1000)
		deps.companies.findByIDForUpdateFn = func(ctx context.Context, id string) (*company.Company, error) {
			return comp, nil
		}
		deps.fees.quoteFn = func(ctx context.Context, subtotal float64) (fee.Breakdown, error) {
			return fee.Breakdown{
				Subtotal:   subtotal,
				Fees:       []fee.AppliedFee{{Name: "Processing", Type: fee.TypeFlat, Amount: 150}},
				TotalFees:  150,
				FinalTotal: subtotal + 150,
			}, nil
		}
		w := &wallet.Wallet{
			ID:      uuid.New(),
			UserID:  uuid.MustParse(customerID),
			Balance: 2000,
			Status:  wallet.StatusActive,
		}
		deps.wallets.findByUserIDForUpdateFn = func(ctx context.Context, userID string) (*wallet.Wallet, error) {
			return w, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel(company.StorefrontCacheKey).SetVal(1)

		resp, err := deps.service.Checkout(ctx, customerID, order.CheckoutRequest{
			CompanyID:     comp.ID.String(),
			CustomerName:  "Jane Buyer",
			CustomerEmail: "jane@mail.com",
			PaymentMethod: order.PaymentMethodWallet,
		})

		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, resp.Status)
		assert.Equal(t, "paid", resp.PaymentStatus)
		assert.Equal(t, 1000.0, resp.Subtotal)
		assert.Equal(t, 1150.0, resp.Amount)
		assert.Equal(t, "ORD-000001", resp.OrderNumber)

		// wallet debited under the same transaction
		assert.Equal(t, 850.0, w.Balance)

		// company reserved
		assert.Equal(t, company.StatusPending, comp.Status)
		assert.Equal(t, "paid", comp.PaymentStatus)

		// created + paid lifecycle events queued
		require.Len(t, deps.outbox.events, 2)
		assert.Equal(t, "order_created", deps.outbox.events[0].EventType)
		assert.Equal(t, "order_paid", deps.outbox.events[1].EventType)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("coupon discounts the final total and is redeemed", func(t *testing.T) {
		deps := setupOrderService(t)

		comp := availableCompany(1000)
		deps.companies.findByIDForUpdateFn = func(ctx context.Context, id string) (*company.Company, error) {
			return comp, nil
		}
		couponID := uuid.New().String()
		deps.coupons.validateFn = func(ctx context.Context, code string, currentTotal float64) (coupon.ValidationResult, error) {
			assert.Equal(t, 1000.0, currentTotal)
			return coupon.ValidationResult{
				Valid:           true,
				Discount:        100,
				DiscountedTotal: currentTotal - 100,
				Coupon:          coupon.CouponResponse{ID: couponID, Code: code},
			}, nil
		}
		redeemed := ""
		deps.coupons.redeemFn = func(ctx context.Context, id string) error {
			redeemed = id
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel(company.StorefrontCacheKey).SetVal(1)

		resp, err := deps.service.Checkout(ctx, customerID, order.CheckoutRequest{
			CompanyID:     comp.ID.String(),
			CustomerName:  "Jane Buyer",
			CustomerEmail: "jane@mail.com",
			PaymentMethod: order.PaymentMethodCard,
			CouponCode:    "LAUNCH10",
		})

		require.NoError(t, err)
		assert.Equal(t, 900.0, resp.Amount)
		require.NotNil(t, resp.AppliedCoupon)
		assert.Equal(t, "LAUNCH10", resp.AppliedCoupon.Code)
		assert.Equal(t, 100.0, resp.AppliedCoupon.Discount)
		assert.Equal(t, couponID, redeemed)
		assert.True(t, deps.coupons.txBound, "redeem must run on the checkout transaction")
	})

	t.Run("company not available", func(t *testing.T) {
		deps := setupOrderService(t)

		comp := availableCompany(1000)
		comp.Status = company.StatusPending
		deps.companies.findByIDForUpdateFn = func(ctx context.Context, id string) (*company.Company, error) {
			return comp, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Checkout(ctx, customerID, order.CheckoutRequest{
			CompanyID:     comp.ID.String(),
			CustomerName:  "Jane Buyer",
			CustomerEmail: "jane@mail.com",
			PaymentMethod: order.PaymentMethodCard,
		})

		assert.ErrorIs(t, err, ordererrors.ErrCompanyNotAvailable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insufficient wallet funds rolls everything back", func(t *testing.T) {
		deps := setupOrderService(t)

		comp := availableCompany(1000)
		deps.companies.findByIDForUpdateFn = func(ctx context.Context, id string) (*company.Company, error) {
			return comp, nil
		}
		deps.wallets.findByUserIDForUpdateFn = func(ctx context.Context, userID string) (*wallet.Wallet, error) {
			return &wallet.Wallet{
				ID:      uuid.New(),
				UserID:  uuid.MustParse(customerID),
				Balance: 50,
				Status:  wallet.StatusActive,
			}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Checkout(ctx, customerID, order.CheckoutRequest{
			CompanyID:     comp.ID.String(),
			CustomerName:  "Jane Buyer",
			CustomerEmail: "jane@mail.com",
			PaymentMethod: order.PaymentMethodWallet,
		})

		assert.ErrorIs(t, err, walleterrors.ErrInsufficientFunds)
		assert.Equal(t, company.StatusAvailable, comp.Status)
		assert.Empty(t, deps.outbox.events)
	})
}

func TestOrderService_Transition(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	orderID := uuid.New()

	t.Run("refunded is not reachable via transition", func(t *testing.T) {
		deps := setupOrderService(t)

		_, err := deps.service.Transition(ctx, orderID.String(), actorID, order.TransitionRequest{
			Status: order.StatusRefunded,
		})

		assert.ErrorIs(t, err, ordererrors.ErrInvalidStatusTransition)
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		deps := setupOrderService(t)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*order.Order, error) {
			return &order.Order{ID: orderID, Status: order.StatusPaid}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Transition(ctx, orderID.String(), actorID, order.TransitionRequest{
			Status: order.StatusCompleted,
		})

		assert.ErrorIs(t, err, ordererrors.ErrInvalidStatusTransition)
	})

	t.Run("cancelling releases the reserved company", func(t *testing.T) {
		deps := setupOrderService(t)

		comp := availableCompany(1000)
		comp.Status = company.StatusPending
		comp.PaymentStatus = "paid"
		deps.companies.findByIDForUpdateFn = func(ctx context.Context, id string) (*company.Company, error) {
			return comp, nil
		}
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*order.Order, error) {
			return &order.Order{
				ID:        orderID,
				CompanyID: comp.ID,
				Status:    order.StatusPendingPayment,
			}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel(company.StorefrontCacheKey).SetVal(1)

		resp, err := deps.service.Transition(ctx, orderID.String(), actorID, order.TransitionRequest{
			Status: order.StatusCancelled,
			Reason: "customer backed out",
		})

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, resp.Status)
		assert.Equal(t, company.StatusAvailable, comp.Status)
		assert.Equal(t, "unpaid", comp.PaymentStatus)
	})
}

func TestOrderService_Refund(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("wallet refund credits the customer", func(t *testing.T) {
		deps := setupOrderService(t)

		customerID := uuid.New()
		comp := availableCompany(1000)
		comp.Status = company.StatusSold
		o := &order.Order{
			ID:            uuid.New(),
			OrderNumber:   "ORD-000042",
			CustomerID:    customerID,
			CompanyID:     comp.ID,
			Amount:        1150,
			Currency:      "USD",
			Status:        order.StatusPaid,
			PaymentStatus: "paid",
		}
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*order.Order, error) {
			return o, nil
		}
		deps.companies.findByIDForUpdateFn = func(ctx context.Context, id string) (*company.Company, error) {
			return comp, nil
		}
		w := &wallet.Wallet{
			ID:      uuid.New(),
			UserID:  customerID,
			Balance: 10,
			Status:  wallet.StatusActive,
		}
		deps.wallets.findByUserIDForUpdateFn = func(ctx context.Context, userID string) (*wallet.Wallet, error) {
			return w, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Refund(ctx, o.ID.String(), actorID, order.RefundOrderRequest{
			Reason: "buyer withdrew",
			Method: "wallet",
		})

		require.NoError(t, err)
		assert.Equal(t, order.StatusRefunded, resp.Status)
		assert.Equal(t, "refunded", resp.PaymentStatus)
		require.NotNil(t, resp.RefundRecord)
		assert.Equal(t, 1150.0, resp.RefundRecord.Amount)

		assert.Equal(t, 1160.0, w.Balance)
		assert.Equal(t, company.StatusRefunded, comp.Status)
		assert.Equal(t, "refunded", comp.RefundStatus)

		require.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "order_refunded", deps.outbox.events[0].EventType)
	})

	t.Run("already refunded", func(t *testing.T) {
		deps := setupOrderService(t)

		o := &order.Order{ID: uuid.New(), Status: order.StatusRefunded}
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*order.Order, error) {
			return o, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Refund(ctx, o.ID.String(), actorID, order.RefundOrderRequest{
			Reason: "again",
			Method: "original",
		})

		assert.ErrorIs(t, err, ordererrors.ErrAlreadyRefunded)
	})

	t.Run("cancelled orders cannot be refunded", func(t *testing.T) {
		deps := setupOrderService(t)

		o := &order.Order{ID: uuid.New(), Status: order.StatusCancelled}
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*order.Order, error) {
			return o, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Refund(ctx, o.ID.String(), actorID, order.RefundOrderRequest{
			Reason: "no",
			Method: "original",
		})

		assert.ErrorIs(t, err, ordererrors.ErrRefundNotAllowed)
	})
}
