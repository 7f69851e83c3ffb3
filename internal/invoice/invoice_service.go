package invoice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shelfmarket/internal/events"
	invoiceerrors "shelfmarket/internal/invoice/errors"
	"shelfmarket/internal/shared/contextutil"
	"shelfmarket/internal/shared/counter"
)

// Terms applied to invoices raised automatically from paid orders.
const defaultDueDays = 14

//go:generate mockgen -source=invoice_service.go -destination=mock/invoice_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	CreateFromOrder(ctx context.Context, event events.OrderLifecycleEvent) (InvoiceResponse, error)
	GetAll(ctx context.Context, filter ListInvoicesFilterRequest) ([]InvoiceResponse, error)
	GetByID(ctx context.Context, id string) (InvoiceResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	Transition(ctx context.Context, id, actorID string, req TransitionInvoiceRequest) (InvoiceResponse, error)
	Delete(ctx context.Context, id string) error
	Analytics(ctx context.Context) (AnalyticsSummary, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("invoice.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("invoice.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create invoice requested",
		zap.String("request_id", rid),
		zap.String("customer_id", req.CustomerID),
		zap.Int("line_items", len(req.LineItems)),
	)

	if len(req.LineItems) == 0 {
		return InvoiceResponse{}, invoiceerrors.ErrEmptyLineItems
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidDateFormat
	}

	items := make([]LineItem, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		items = append(items, LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
		})
	}
	items = NormalizeLineItems(items)

	number, err := s.nextNumber(ctx)
	if err != nil {
		return InvoiceResponse{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	inv := &Invoice{
		ID:             uuid.New(),
		InvoiceNumber:  number,
		CustomerID:     uuid.MustParse(req.CustomerID),
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CompanyName:    req.CompanyName,
		LineItems:      items,
		TaxAmount:      req.TaxAmount,
		CustomFee:      req.CustomFee,
		DiscountAmount: req.DiscountAmount,
		Total:          ComputeTotal(items, req.TaxAmount, req.CustomFee, req.DiscountAmount),
		Currency:       currency,
		PaymentMethod:  req.PaymentMethod,
		Status:         StatusPending,
		IssuedAt:       now,
		DueDate:        dueDate,
		StatusHistory: StatusHistory{{
			FromStatus: "",
			ToStatus:   StatusPending,
			ChangedBy:  actorID,
			Reason:     "invoice issued",
			ChangedAt:  now,
		}},
	}

	if req.OrderID != "" {
		oid := uuid.MustParse(req.OrderID)
		inv.OrderID = &oid
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		s.logger.Error("create invoice persist failed", zap.Error(err))
		return InvoiceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create invoice success",
		zap.String("request_id", rid),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
	)
	return s.mapToResponse(*inv), nil
}

// CreateFromOrder raises the invoice for a paid order. The consumer retries
// delivery, so a duplicate order id maps to ErrDuplicateOrderInvoice and the
// caller can skip the event. Events with ids that do not parse map to
// ErrMalformedOrderEvent for the same commit-and-skip treatment, since
// redelivery can never repair them.
func (s *service) CreateFromOrder(ctx context.Context, event events.OrderLifecycleEvent) (InvoiceResponse, error) {
	oid, err := uuid.Parse(event.OrderID)
	if err != nil {
		s.logger.Warn("order lifecycle event rejected, bad order id",
			zap.String("order_id", event.OrderID),
			zap.String("order_number", event.OrderNumber),
		)
		return InvoiceResponse{}, invoiceerrors.ErrMalformedOrderEvent
	}
	custID, err := uuid.Parse(event.CustomerID)
	if err != nil {
		s.logger.Warn("order lifecycle event rejected, bad customer id",
			zap.String("order_id", event.OrderID),
			zap.String("customer_id", event.CustomerID),
		)
		return InvoiceResponse{}, invoiceerrors.ErrMalformedOrderEvent
	}

	number, err := s.nextNumber(ctx)
	if err != nil {
		return InvoiceResponse{}, err
	}

	items := NormalizeLineItems([]LineItem{{
		Description: "Shelf company purchase, order " + event.OrderNumber,
		Quantity:    1,
		UnitPrice:   event.Amount,
	}})

	now := time.Now().UTC()
	inv := &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: number,
		OrderID:       &oid,
		CustomerID:    custID,
		CustomerName:  "",
		CustomerEmail: "",
		LineItems:     items,
		Total:         ComputeTotal(items, 0, 0, 0),
		AmountPaid:    event.Amount,
		Currency:      event.Currency,
		Status:        StatusPaid,
		IssuedAt:      now,
		DueDate:       now.AddDate(0, 0, defaultDueDays),
		StatusHistory: StatusHistory{{
			FromStatus: "",
			ToStatus:   StatusPaid,
			ChangedBy:  "system",
			Reason:     "order " + event.OrderNumber + " paid",
			ChangedAt:  now,
		}},
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return InvoiceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("invoice raised from order",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("order_id", event.OrderID),
		zap.String("invoice_number", inv.InvoiceNumber),
	)
	return s.mapToResponse(*inv), nil
}

func (s *service) GetAll(ctx context.Context, filter ListInvoicesFilterRequest) ([]InvoiceResponse, error) {
	invoices, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all invoices failed", zap.Error(err))
		return nil, err
	}

	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, s.mapToResponse(inv))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return InvoiceResponse{}, mapRepositoryError(err)
	}
	return s.mapToResponse(*inv), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InvoiceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	inv, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return InvoiceResponse{}, mapRepositoryError(err)
	}

	if req.CustomerName != nil {
		inv.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		inv.CustomerEmail = *req.CustomerEmail
	}
	if req.CompanyName != nil {
		inv.CompanyName = *req.CompanyName
	}
	if req.LineItems != nil {
		items := make([]LineItem, 0, len(req.LineItems))
		for _, li := range req.LineItems {
			items = append(items, LineItem{
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice,
			})
		}
		inv.LineItems = NormalizeLineItems(items)
	}
	if req.TaxAmount != nil {
		inv.TaxAmount = *req.TaxAmount
	}
	if req.CustomFee != nil {
		inv.CustomFee = *req.CustomFee
	}
	if req.DiscountAmount != nil {
		inv.DiscountAmount = *req.DiscountAmount
	}
	if req.PaymentMethod != nil {
		inv.PaymentMethod = *req.PaymentMethod
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return InvoiceResponse{}, invoiceerrors.ErrInvalidDateFormat
		}
		inv.DueDate = dueDate
	}
	if req.Attachments != nil {
		inv.Attachments = req.Attachments
	}

	inv.Total = ComputeTotal(inv.LineItems, inv.TaxAmount, inv.CustomFee, inv.DiscountAmount)

	if err := qtx.Update(ctx, inv); err != nil {
		s.logger.Error("update invoice persist failed", zap.Error(err))
		return InvoiceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return InvoiceResponse{}, err
	}

	s.logger.Info("update invoice success",
		zap.String("invoice_id", id),
		zap.String("actor_id", actorID),
	)
	return s.mapToResponse(*inv), nil
}

// Transition applies a guarded stored-status change and appends to the
// status history. Partial payments record the running amount paid.
func (s *service) Transition(ctx context.Context, id, actorID string, req TransitionInvoiceRequest) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InvoiceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	inv, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return InvoiceResponse{}, mapRepositoryError(err)
	}

	if !IsAllowedTransition(inv.Status, req.Status) {
		s.logger.Warn("invoice transition rejected",
			zap.String("invoice_id", id),
			zap.String("from", inv.Status),
			zap.String("to", req.Status),
		)
		return InvoiceResponse{}, invoiceerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	from := inv.Status
	inv.Status = req.Status

	switch req.Status {
	case StatusPaid:
		inv.AmountPaid = inv.Total
	case StatusPartial:
		if req.AmountPaid > 0 {
			inv.AmountPaid = req.AmountPaid
		}
	case StatusRefunded:
		inv.AmountPaid = 0
	}

	inv.StatusHistory = append(inv.StatusHistory, StatusChange{
		FromStatus: from,
		ToStatus:   req.Status,
		ChangedBy:  actorID,
		Reason:     req.Reason,
		ChangedAt:  now,
	})

	if err := qtx.Update(ctx, inv); err != nil {
		s.logger.Error("invoice transition persist failed", zap.Error(err))
		return InvoiceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return InvoiceResponse{}, err
	}

	s.logger.Info("invoice transition success",
		zap.String("invoice_id", id),
		zap.String("from", from),
		zap.String("to", req.Status),
	)
	return s.mapToResponse(*inv), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invoiceerrors.ErrInvalidInvoiceID
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete invoice failed", zap.Error(err))
		return err
	}
	s.logger.Info("delete invoice success", zap.String("invoice_id", id))
	return nil
}

func (s *service) Analytics(ctx context.Context) (AnalyticsSummary, error) {
	summary, err := s.repo.AnalyticsSummary(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("invoice analytics failed", zap.Error(err))
		return AnalyticsSummary{}, err
	}
	return summary, nil
}

func (s *service) nextNumber(ctx context.Context) (string, error) {
	nextVal, err := s.counter.GetNextValue(ctx, counter.TypeInvoiceNumber)
	if err != nil {
		s.logger.Error("generate invoice number failed", zap.Error(err))
		return "", err
	}
	return fmt.Sprintf("INV-%06d", nextVal), nil
}

func (s *service) mapToResponse(inv Invoice) InvoiceResponse {
	now := time.Now().UTC()
	resp := InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID.String(),
		CustomerName:   inv.CustomerName,
		CustomerEmail:  inv.CustomerEmail,
		CompanyName:    inv.CompanyName,
		LineItems:      inv.LineItems,
		TaxAmount:      inv.TaxAmount,
		CustomFee:      inv.CustomFee,
		DiscountAmount: inv.DiscountAmount,
		Total:          inv.Total,
		AmountPaid:     inv.AmountPaid,
		Currency:       inv.Currency,
		PaymentMethod:  inv.PaymentMethod,
		Status:         DisplayStatus(inv.Status, inv.DueDate, now),
		StoredStatus:   inv.Status,
		StatusHistory:  inv.StatusHistory,
		IssuedAt:       inv.IssuedAt.Format("2006-01-02"),
		DueDate:        inv.DueDate.Format("2006-01-02"),
		Attachments:    inv.Attachments,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.OrderID != nil {
		resp.OrderID = inv.OrderID.String()
	}
	return resp
}
