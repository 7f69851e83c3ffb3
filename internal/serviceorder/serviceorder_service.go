package serviceorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shelfmarket/internal/catalog"
	serviceordererrors "shelfmarket/internal/serviceorder/errors"
	"shelfmarket/internal/shared/contextutil"
	"shelfmarket/internal/shared/counter"
	"shelfmarket/internal/wallet"
	walleterrors "shelfmarket/internal/wallet/errors"
)

//go:generate mockgen -source=serviceorder_service.go -destination=mock/serviceorder_service_mock.go -package=mock
type Service interface {
	Place(ctx context.Context, customerID string, req PlaceServiceOrderRequest) (ServiceOrderResponse, error)
	GetAll(ctx context.Context, filter ListServiceOrdersFilterRequest) ([]ServiceOrderResponse, error)
	GetByID(ctx context.Context, id string) (ServiceOrderResponse, error)
	GetByCustomer(ctx context.Context, customerID string) ([]ServiceOrderResponse, error)
	Transition(ctx context.Context, id, actorID string, req TransitionServiceOrderRequest) (ServiceOrderResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	catalog catalog.Service
	wallets wallet.Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	catalogService catalog.Service,
	walletRepo wallet.Repository,
	counterRepo counter.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("serviceorder.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("serviceorder.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		catalog: catalogService,
		wallets: walletRepo,
		counter: counterRepo,
		logger:  l,
	}
}

// Place validates the application against the service's form definition,
// takes payment and records the order with a price snapshot. The wallet
// debit and the order row commit together or not at all.
func (s *service) Place(ctx context.Context, customerID string, req PlaceServiceOrderRequest) (ServiceOrderResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	custID, err := uuid.Parse(customerID)
	if err != nil {
		return ServiceOrderResponse{}, serviceordererrors.ErrInvalidOrderID
	}

	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		return ServiceOrderResponse{}, err
	}
	if !svc.Active {
		s.logger.Warn("service order rejected, service inactive",
			zap.String("service_id", req.ServiceID),
		)
		return ServiceOrderResponse{}, serviceordererrors.ErrServiceNotOrderable
	}

	if err := ValidateApplicationData(svc.FormFields, req.ApplicationData); err != nil {
		s.logger.Warn("service order application rejected",
			zap.String("service_id", req.ServiceID),
			zap.Error(err),
		)
		return ServiceOrderResponse{}, serviceordererrors.InvalidApplicationData(err.Error())
	}

	nextVal, err := s.counter.GetNextValue(ctx, counter.TypeServiceOrderNumber)
	if err != nil {
		s.logger.Error("generate service order number failed", zap.Error(err))
		return ServiceOrderResponse{}, err
	}

	now := time.Now().UTC()
	o := &ServiceOrder{
		ID:              uuid.New(),
		OrderNumber:     fmt.Sprintf("SVC-%06d", nextVal),
		ServiceID:       uuid.MustParse(req.ServiceID),
		ServiceName:     svc.Name,
		CustomerID:      custID,
		CustomerEmail:   req.CustomerEmail,
		Amount:          svc.Price,
		Currency:        svc.Currency,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   "unpaid",
		ApplicationData: req.ApplicationData,
		Status:          StatusPending,
		StatusHistory: StatusHistory{{
			FromStatus: "",
			ToStatus:   StatusPending,
			ChangedBy:  customerID,
			Reason:     "service order placed",
			ChangedAt:  now,
		}},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("place service order begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ServiceOrderResponse{}, err
	}
	defer tx.Rollback()

	if err := s.takePayment(ctx, tx, o, customerID); err != nil {
		return ServiceOrderResponse{}, err
	}

	if err := s.repo.WithTx(tx).Create(ctx, o); err != nil {
		s.logger.Error("place service order persist failed", zap.Error(err))
		return ServiceOrderResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("place service order commit failed", zap.String("request_id", rid), zap.Error(err))
		return ServiceOrderResponse{}, err
	}

	s.logger.Info("place service order success",
		zap.String("request_id", rid),
		zap.String("service_order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("service_name", o.ServiceName),
	)
	return mapToResponse(*o), nil
}

// takePayment charges the service order. The card path talks to a simulated
// gateway that always authorizes; the wallet path debits the customer's
// wallet on the same transaction as the order row.
func (s *service) takePayment(ctx context.Context, tx *sql.Tx, o *ServiceOrder, customerID string) error {
	switch o.PaymentMethod {
	case PaymentMethodWallet:
		walletTx := s.wallets.WithTx(tx)
		w, err := walletTx.FindByUserIDForUpdate(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return walleterrors.ErrInsufficientFunds
			}
			s.logger.Error("place service order load wallet failed", zap.Error(err))
			return err
		}
		entry, err := wallet.ApplyDebit(w, o.Amount, o.OrderNumber, "payment for service order "+o.OrderNumber)
		if err != nil {
			s.logger.Warn("service order wallet debit rejected",
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
		return serviceordererrors.ErrInvalidPaymentMethod
	}

	o.PaymentStatus = "paid"
	return nil
}

func (s *service) GetAll(ctx context.Context, filter ListServiceOrdersFilterRequest) ([]ServiceOrderResponse, error) {
	orders, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all service orders failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(orders), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ServiceOrderResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ServiceOrderResponse{}, serviceordererrors.ErrInvalidOrderID
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ServiceOrderResponse{}, serviceordererrors.ErrOrderNotFound
		}
		return ServiceOrderResponse{}, err
	}
	return mapToResponse(*o), nil
}

func (s *service) GetByCustomer(ctx context.Context, customerID string) ([]ServiceOrderResponse, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return nil, serviceordererrors.ErrInvalidOrderID
	}
	orders, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(orders), nil
}

func (s *service) Transition(ctx context.Context, id, actorID string, req TransitionServiceOrderRequest) (ServiceOrderResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ServiceOrderResponse{}, serviceordererrors.ErrInvalidOrderID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ServiceOrderResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	o, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ServiceOrderResponse{}, serviceordererrors.ErrOrderNotFound
		}
		return ServiceOrderResponse{}, err
	}

	if !IsAllowedTransition(o.Status, req.Status) {
		s.logger.Warn("service order transition rejected",
			zap.String("service_order_id", id),
			zap.String("from", o.Status),
			zap.String("to", req.Status),
		)
		return ServiceOrderResponse{}, serviceordererrors.ErrInvalidStatusTransition
	}

	from := o.Status
	o.Status = req.Status
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		FromStatus: from,
		ToStatus:   req.Status,
		ChangedBy:  actorID,
		Reason:     req.Reason,
		ChangedAt:  time.Now().UTC(),
	})

	if err := qtx.Update(ctx, o); err != nil {
		s.logger.Error("service order transition persist failed", zap.Error(err))
		return ServiceOrderResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ServiceOrderResponse{}, err
	}

	s.logger.Info("service order transition success",
		zap.String("service_order_id", id),
		zap.String("from", from),
		zap.String("to", req.Status),
	)
	return mapToResponse(*o), nil
}

func mapToResponse(o ServiceOrder) ServiceOrderResponse {
	return ServiceOrderResponse{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		ServiceID:       o.ServiceID.String(),
		ServiceName:     o.ServiceName,
		CustomerID:      o.CustomerID.String(),
		CustomerEmail:   o.CustomerEmail,
		Amount:          o.Amount,
		Currency:        o.Currency,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		ApplicationData: o.ApplicationData,
		Status:          o.Status,
		StatusHistory:   o.StatusHistory,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(orders []ServiceOrder) []ServiceOrderResponse {
	out := make([]ServiceOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, mapToResponse(o))
	}
	return out
}
