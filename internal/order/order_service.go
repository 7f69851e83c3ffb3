package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shelfmarket/internal/company"
	"shelfmarket/internal/coupon"
	"shelfmarket/internal/events"
	"shelfmarket/internal/fee"
	"shelfmarket/internal/messaging/kafka"
	ordererrors "shelfmarket/internal/order/errors"
	"shelfmarket/internal/shared/contextutil"
	"shelfmarket/internal/shared/counter"
	"shelfmarket/internal/wallet"
	walleterrors "shelfmarket/internal/wallet/errors"
)

//go:generate mockgen -source=order_service.go -destination=mock/order_service_mock.go -package=mock
type Service interface {
	Checkout(ctx context.Context, customerID string, req CheckoutRequest) (OrderResponse, error)
	GetAll(ctx context.Context, filter ListOrdersFilterRequest) ([]OrderResponse, error)
	GetByID(ctx context.Context, id string) (OrderResponse, error)
	GetByCustomer(ctx context.Context, customerID string) ([]OrderResponse, error)
	Transition(ctx context.Context, id, actorID string, req TransitionRequest) (OrderResponse, error)
	Refund(ctx context.Context, id, actorID string, req RefundOrderRequest) (OrderResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	companies company.Repository
	wallets   wallet.Repository
	coupons   coupon.Service
	fees      fee.Service
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	companies company.Repository,
	wallets wallet.Repository,
	coupons coupon.Service,
	fees fee.Service,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("order.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("order.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		companies: companies,
		wallets:   wallets,
		coupons:   coupons,
		fees:      fees,
		counter:   counterRepo,
		outbox:    outboxRepo,
		rdb:       rdb,
		logger:    l,
	}
}

// Checkout reserves the company, prices the order, takes payment and queues
// lifecycle events, all inside one transaction. If anything fails the company
// stays available and the customer is not charged.
func (s *service) Checkout(ctx context.Context, customerID string, req CheckoutRequest) (OrderResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("checkout requested",
		zap.String("request_id", rid),
		zap.String("customer_id", customerID),
		zap.String("company_id", req.CompanyID),
		zap.String("payment_method", req.PaymentMethod),
	)

	custID, err := uuid.Parse(customerID)
	if err != nil {
		return OrderResponse{}, ordererrors.ErrInvalidCustomerID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("checkout begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return OrderResponse{}, err
	}
	defer tx.Rollback()

	companyTx := s.companies.WithTx(tx)
	comp, err := companyTx.FindByIDForUpdate(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, ordererrors.ErrCompanyNotAvailable
		}
		s.logger.Error("checkout load company failed", zap.Error(err))
		return OrderResponse{}, err
	}
	if comp.Status != company.StatusAvailable {
		s.logger.Warn("checkout company not available",
			zap.String("company_id", comp.ID.String()),
			zap.String("status", comp.Status),
		)
		return OrderResponse{}, ordererrors.ErrCompanyNotAvailable
	}

	subtotal := comp.PurchasePrice
	breakdown, err := s.fees.Quote(ctx, subtotal)
	if err != nil {
		s.logger.Error("checkout fee quote failed", zap.Error(err))
		return OrderResponse{}, err
	}
	total := breakdown.FinalTotal

	var couponSnap *CouponSnapshot
	if req.CouponCode != "" {
		result, err := s.coupons.Validate(ctx, req.CouponCode, total)
		if err != nil {
			return OrderResponse{}, err
		}
		couponSnap = &CouponSnapshot{
			CouponID: result.Coupon.ID,
			Code:     result.Coupon.Code,
			Discount: result.Discount,
		}
		total = result.DiscountedTotal
	}

	nextVal, err := s.counter.GetNextValue(ctx, counter.TypeOrderNumber)
	if err != nil {
		s.logger.Error("checkout generate order number failed", zap.Error(err))
		return OrderResponse{}, err
	}

	now := time.Now().UTC()
	o := &Order{
		ID:            uuid.New(),
		OrderNumber:   fmt.Sprintf("ORD-%06d", nextVal),
		CustomerID:    custID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		CompanyID:     comp.ID,
		Subtotal:      subtotal,
		Amount:        total,
		Currency:      comp.Currency,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: "unpaid",
		Status:        StatusPendingPayment,
		AppliedFees:   FeeSnapshot(breakdown),
		AppliedCoupon: couponSnap,
		StatusHistory: StatusHistory{{
			FromStatus: "",
			ToStatus:   StatusPendingPayment,
			ChangedBy:  customerID,
			Reason:     "order placed",
			ChangedAt:  now,
		}},
	}

	if err := s.takePayment(ctx, tx, o, customerID, now); err != nil {
		return OrderResponse{}, err
	}

	if err := s.repo.WithTx(tx).Create(ctx, o); err != nil {
		s.logger.Error("checkout persist order failed", zap.Error(err))
		return OrderResponse{}, err
	}

	comp.Status = company.StatusPending
	comp.PaymentStatus = "paid"
	comp.ActivityLog = append(comp.ActivityLog, company.ActivityEntry{
		Action:      "reserved",
		Description: "reserved by order " + o.OrderNumber,
		ActorID:     customerID,
		OccurredAt:  now,
	})
	if err := companyTx.Update(ctx, comp); err != nil {
		s.logger.Error("checkout reserve company failed", zap.Error(err))
		return OrderResponse{}, err
	}

	if couponSnap != nil {
		if err := s.coupons.WithTx(tx).Redeem(ctx, couponSnap.CouponID); err != nil {
			s.logger.Error("checkout redeem coupon failed",
				zap.String("coupon_id", couponSnap.CouponID),
				zap.Error(err),
			)
			return OrderResponse{}, err
		}
	}

	if err := s.enqueueEvent(ctx, tx, o, events.OrderEventCreated, rid); err != nil {
		return OrderResponse{}, err
	}
	if err := s.enqueueEvent(ctx, tx, o, events.OrderEventPaid, rid); err != nil {
		return OrderResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("checkout commit failed", zap.String("request_id", rid), zap.Error(err))
		return OrderResponse{}, err
	}

	s.invalidateStorefront(ctx)

	s.logger.Info("checkout success",
		zap.String("request_id", rid),
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.Float64("amount", o.Amount),
	)
	return mapToResponse(*o), nil
}

// takePayment charges the order and moves it to paid. The card path talks to
// a simulated gateway that always authorizes; the wallet path debits the
// customer's wallet under the same transaction as the order itself.
func (s *service) takePayment(ctx context.Context, tx *sql.Tx, o *Order, customerID string, now time.Time) error {
	switch o.PaymentMethod {
	case PaymentMethodWallet:
		walletTx := s.wallets.WithTx(tx)
		w, err := walletTx.FindByUserIDForUpdate(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return walleterrors.ErrInsufficientFunds
			}
			s.logger.Error("checkout load wallet failed", zap.Error(err))
			return err
		}
		entry, err := wallet.ApplyDebit(w, o.Amount, o.OrderNumber, "payment for order "+o.OrderNumber)
		if err != nil {
			s.logger.Warn("checkout wallet debit rejected",
				zap.String("customer_id", customerID),
				zap.Float64("amount", o.Amount),
				zap.Error(err),
			)
			return err
		}
		if err := walletTx.Update(ctx, w); err != nil {
			return err
		}
		if err := walletTx.CreateTransaction(ctx, entry); err != nil {
			return err
		}
	case PaymentMethodCard:
		// Simulated gateway: authorization always succeeds.
	default:
		return ordererrors.ErrInvalidOrderID
	}

	o.PaymentStatus = "paid"
	o.Status = StatusPaid
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		FromStatus: StatusPendingPayment,
		ToStatus:   StatusPaid,
		ChangedBy:  customerID,
		Reason:     "payment captured via " + o.PaymentMethod,
		ChangedAt:  now,
	})
	return nil
}

func (s *service) GetAll(ctx context.Context, filter ListOrdersFilterRequest) ([]OrderResponse, error) {
	orders, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all orders failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(orders), nil
}

func (s *service) GetByID(ctx context.Context, id string) (OrderResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return OrderResponse{}, ordererrors.ErrInvalidOrderID
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, ordererrors.ErrOrderNotFound
		}
		return OrderResponse{}, err
	}
	return mapToResponse(*o), nil
}

func (s *service) GetByCustomer(ctx context.Context, customerID string) ([]OrderResponse, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return nil, ordererrors.ErrInvalidCustomerID
	}
	orders, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(orders), nil
}

// Transition moves an order along the fulfilment pipeline. Refunds have
// money-moving side effects and must go through Refund instead.
func (s *service) Transition(ctx context.Context, id, actorID string, req TransitionRequest) (OrderResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return OrderResponse{}, ordererrors.ErrInvalidOrderID
	}
	if req.Status == StatusRefunded {
		return OrderResponse{}, ordererrors.ErrInvalidStatusTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return OrderResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	o, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, ordererrors.ErrOrderNotFound
		}
		return OrderResponse{}, err
	}

	if !IsAllowedTransition(o.Status, req.Status) {
		s.logger.Warn("order transition rejected",
			zap.String("order_id", id),
			zap.String("from", o.Status),
			zap.String("to", req.Status),
		)
		return OrderResponse{}, ordererrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	from := o.Status
	o.Status = req.Status
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		FromStatus: from,
		ToStatus:   req.Status,
		ChangedBy:  actorID,
		Reason:     req.Reason,
		ChangedAt:  now,
	})

	if req.Status == StatusCancelled {
		if err := s.releaseCompany(ctx, tx, o, actorID, now); err != nil {
			return OrderResponse{}, err
		}
	}

	if err := qtx.Update(ctx, o); err != nil {
		s.logger.Error("order transition persist failed", zap.Error(err))
		return OrderResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return OrderResponse{}, err
	}

	if req.Status == StatusCancelled {
		s.invalidateStorefront(ctx)
	}

	s.logger.Info("order transition success",
		zap.String("order_id", id),
		zap.String("from", from),
		zap.String("to", req.Status),
	)
	return mapToResponse(*o), nil
}

// Refund reverses a paid order: the order is marked refunded, the company is
// pulled off sale into refunded state, and the money goes back either to the
// customer's wallet or to the original payment method.
func (s *service) Refund(ctx context.Context, id, actorID string, req RefundOrderRequest) (OrderResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return OrderResponse{}, ordererrors.ErrInvalidOrderID
	}
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return OrderResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	o, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, ordererrors.ErrOrderNotFound
		}
		return OrderResponse{}, err
	}

	if o.Status == StatusRefunded {
		return OrderResponse{}, ordererrors.ErrAlreadyRefunded
	}
	if !IsAllowedTransition(o.Status, StatusRefunded) {
		return OrderResponse{}, ordererrors.ErrRefundNotAllowed
	}

	now := time.Now().UTC()

	if req.Method == "wallet" {
		walletTx := s.wallets.WithTx(tx)
		w, err := walletTx.FindByUserIDForUpdate(ctx, o.CustomerID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				w = &wallet.Wallet{
					ID:       uuid.New(),
					UserID:   o.CustomerID,
					Currency: o.Currency,
					Status:   wallet.StatusActive,
				}
				if err := walletTx.Create(ctx, w); err != nil {
					return OrderResponse{}, err
				}
			} else {
				return OrderResponse{}, err
			}
		}
		entry, err := wallet.ApplyCredit(w, wallet.TxTypeRefund, o.Amount, o.OrderNumber, "refund for order "+o.OrderNumber)
		if err != nil {
			return OrderResponse{}, err
		}
		if err := walletTx.Update(ctx, w); err != nil {
			return OrderResponse{}, err
		}
		if err := walletTx.CreateTransaction(ctx, entry); err != nil {
			return OrderResponse{}, err
		}
	}
	// method "original" goes back through the simulated gateway; nothing to
	// persist on our side beyond the refund record.

	from := o.Status
	o.Status = StatusRefunded
	o.PaymentStatus = "refunded"
	o.RefundRecord = &Refund{
		Amount:     o.Amount,
		Reason:     req.Reason,
		RefundedBy: actorID,
		RefundedAt: now,
		Method:     req.Method,
	}
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		FromStatus: from,
		ToStatus:   StatusRefunded,
		ChangedBy:  actorID,
		Reason:     req.Reason,
		ChangedAt:  now,
	})

	companyTx := s.companies.WithTx(tx)
	comp, err := companyTx.FindByIDForUpdate(ctx, o.CompanyID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderResponse{}, err
	}
	if err == nil {
		comp.Status = company.StatusRefunded
		comp.RefundStatus = "refunded"
		comp.ActivityLog = append(comp.ActivityLog, company.ActivityEntry{
			Action:      "refunded",
			Description: "refund issued for order " + o.OrderNumber,
			ActorID:     actorID,
			OccurredAt:  now,
		})
		if err := companyTx.Update(ctx, comp); err != nil {
			return OrderResponse{}, err
		}
	}

	if err := qtx.Update(ctx, o); err != nil {
		s.logger.Error("refund persist order failed", zap.Error(err))
		return OrderResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, o, events.OrderEventRefunded, rid); err != nil {
		return OrderResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return OrderResponse{}, err
	}

	s.logger.Info("refund success",
		zap.String("request_id", rid),
		zap.String("order_id", id),
		zap.Float64("amount", o.Amount),
		zap.String("method", req.Method),
	)
	return mapToResponse(*o), nil
}

// releaseCompany puts the reserved company back on the shelf when its order
// is cancelled before fulfilment.
func (s *service) releaseCompany(ctx context.Context, tx *sql.Tx, o *Order, actorID string, now time.Time) error {
	companyTx := s.companies.WithTx(tx)
	comp, err := companyTx.FindByIDForUpdate(ctx, o.CompanyID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if comp.Status != company.StatusPending {
		return nil
	}
	comp.Status = company.StatusAvailable
	comp.PaymentStatus = "unpaid"
	comp.ActivityLog = append(comp.ActivityLog, company.ActivityEntry{
		Action:      "released",
		Description: "order " + o.OrderNumber + " cancelled",
		ActorID:     actorID,
		OccurredAt:  now,
	})
	return companyTx.Update(ctx, comp)
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, o *Order, eventType, requestID string) error {
	if s.outbox == nil {
		return nil
	}
	event := events.OrderLifecycleEvent{
		EventType:   eventType,
		OrderID:     o.ID.String(),
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID.String(),
		CompanyID:   o.CompanyID.String(),
		Amount:      o.Amount,
		Currency:    o.Currency,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: "order",
		AggregateID:   o.ID.String(),
		EventType:     eventType,
		Topic:         events.OrderLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("order outbox persist failed",
			zap.String("order_id", o.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateStorefront(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, company.StorefrontCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate storefront cache",
			zap.Error(err),
			zap.String("key", company.StorefrontCacheKey),
		)
	}
}

func mapToResponse(o Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID.String(),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		CompanyID:     o.CompanyID.String(),
		Subtotal:      o.Subtotal,
		Amount:        o.Amount,
		Currency:      o.Currency,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Status:        o.Status,
		NextStatuses:  NextStatuses(o.Status),
		StatusHistory: o.StatusHistory,
		AppliedFees:   fee.Breakdown(o.AppliedFees),
		AppliedCoupon: o.AppliedCoupon,
		RefundRecord:  o.RefundRecord,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(orders []Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, mapToResponse(o))
	}
	return out
}
