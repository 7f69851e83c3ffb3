package transferform

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shelfmarket/internal/company"
	"shelfmarket/internal/events"
	"shelfmarket/internal/messaging/kafka"
	"shelfmarket/internal/order"
	"shelfmarket/internal/shared/contextutil"
	transferformerrors "shelfmarket/internal/transferform/errors"
)

//go:generate mockgen -source=transferform_service.go -destination=mock/transferform_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, buyerID string, req CreateTransferFormRequest) (TransferFormResponse, error)
	GetAll(ctx context.Context, filter ListTransferFormsFilterRequest) ([]TransferFormResponse, error)
	GetByID(ctx context.Context, id string) (TransferFormResponse, error)
	GetByBuyer(ctx context.Context, buyerID string) ([]TransferFormResponse, error)
	Amend(ctx context.Context, buyerID, id string, req AmendTransferFormRequest) (TransferFormResponse, error)
	AddComment(ctx context.Context, authorID, id string, req AddCommentRequest) (TransferFormResponse, error)
	Transition(ctx context.Context, id, actorID string, req TransitionTransferFormRequest) (TransferFormResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	orders    order.Repository
	companies company.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	orders order.Repository,
	companies company.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("transferform.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("transferform.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		orders:    orders,
		companies: companies,
		outbox:    outboxRepo,
		logger:    l,
	}
}

// Create files the ownership-change paperwork for a paid order. The order
// moves to transfer_form_pending in the same transaction.
func (s *service) Create(ctx context.Context, buyerID string, req CreateTransferFormRequest) (TransferFormResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	buyer, err := uuid.Parse(buyerID)
	if err != nil {
		return TransferFormResponse{}, transferformerrors.ErrInvalidFormID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TransferFormResponse{}, err
	}
	defer tx.Rollback()

	orderTx := s.orders.WithTx(tx)
	o, err := orderTx.FindByIDForUpdate(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransferFormResponse{}, transferformerrors.ErrOrderNotEligible
		}
		return TransferFormResponse{}, err
	}
	if o.CustomerID != buyer {
		return TransferFormResponse{}, transferformerrors.ErrNotFormOwner
	}
	if o.Status != order.StatusPaid {
		s.logger.Warn("transfer form rejected, order not paid",
			zap.String("order_id", req.OrderID),
			zap.String("order_status", o.Status),
		)
		return TransferFormResponse{}, transferformerrors.ErrOrderNotEligible
	}

	if _, err := s.repo.FindByOrderID(ctx, req.OrderID); err == nil {
		return TransferFormResponse{}, transferformerrors.ErrDuplicateForm
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return TransferFormResponse{}, err
	}

	now := time.Now().UTC()
	f := &TransferForm{
		ID:            uuid.New(),
		OrderID:       o.ID,
		CompanyID:     o.CompanyID,
		BuyerID:       buyer,
		BuyerName:     req.BuyerName,
		BuyerEmail:    req.BuyerEmail,
		BuyerPhone:    req.BuyerPhone,
		BuyerAddress:  req.BuyerAddress,
		SellerName:    req.SellerName,
		SellerEmail:   req.SellerEmail,
		SellerAddress: req.SellerAddress,
		Status:        StatusUnderReview,
		StatusHistory: StatusHistory{{
			FromStatus: "",
			ToStatus:   StatusUnderReview,
			ChangedBy:  buyerID,
			Reason:     "form submitted",
			ChangedAt:  now,
		}},
	}

	if err := s.repo.WithTx(tx).Create(ctx, f); err != nil {
		s.logger.Error("create transfer form persist failed", zap.Error(err))
		return TransferFormResponse{}, err
	}

	o.Status = order.StatusTransferFormPending
	o.StatusHistory = append(o.StatusHistory, order.StatusChange{
		FromStatus: order.StatusPaid,
		ToStatus:   order.StatusTransferFormPending,
		ChangedBy:  buyerID,
		Reason:     "transfer form submitted",
		ChangedAt:  now,
	})
	if err := orderTx.Update(ctx, o); err != nil {
		return TransferFormResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TransferFormResponse{}, err
	}

	s.logger.Info("create transfer form success",
		zap.String("request_id", rid),
		zap.String("form_id", f.ID.String()),
		zap.String("order_id", o.ID.String()),
	)
	return mapToResponse(*f), nil
}

func (s *service) GetAll(ctx context.Context, filter ListTransferFormsFilterRequest) ([]TransferFormResponse, error) {
	forms, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all transfer forms failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(forms), nil
}

func (s *service) GetByID(ctx context.Context, id string) (TransferFormResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransferFormResponse{}, transferformerrors.ErrInvalidFormID
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransferFormResponse{}, transferformerrors.ErrFormNotFound
		}
		return TransferFormResponse{}, err
	}
	return mapToResponse(*f), nil
}

func (s *service) GetByBuyer(ctx context.Context, buyerID string) ([]TransferFormResponse, error) {
	if _, err := uuid.Parse(buyerID); err != nil {
		return nil, transferformerrors.ErrInvalidFormID
	}
	forms, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(forms), nil
}

// Amend lets the buyer fix the details a reviewer flagged. Once resubmitted
// the form goes back under review.
func (s *service) Amend(ctx context.Context, buyerID, id string, req AmendTransferFormRequest) (TransferFormResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransferFormResponse{}, transferformerrors.ErrInvalidFormID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TransferFormResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	f, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransferFormResponse{}, transferformerrors.ErrFormNotFound
		}
		return TransferFormResponse{}, err
	}
	if f.BuyerID.String() != buyerID {
		return TransferFormResponse{}, transferformerrors.ErrNotFormOwner
	}
	if f.Status != StatusAmendRequired {
		return TransferFormResponse{}, transferformerrors.ErrInvalidStatusTransition
	}

	if req.BuyerName != nil {
		f.BuyerName = *req.BuyerName
	}
	if req.BuyerEmail != nil {
		f.BuyerEmail = *req.BuyerEmail
	}
	if req.BuyerPhone != nil {
		f.BuyerPhone = *req.BuyerPhone
	}
	if req.BuyerAddress != nil {
		f.BuyerAddress = *req.BuyerAddress
	}
	if req.SellerName != nil {
		f.SellerName = *req.SellerName
	}
	if req.SellerEmail != nil {
		f.SellerEmail = *req.SellerEmail
	}
	if req.SellerAddress != nil {
		f.SellerAddress = *req.SellerAddress
	}
	if req.Attachments != nil {
		f.Attachments = req.Attachments
	}

	now := time.Now().UTC()
	f.Status = StatusUnderReview
	f.StatusHistory = append(f.StatusHistory, StatusChange{
		FromStatus: StatusAmendRequired,
		ToStatus:   StatusUnderReview,
		ChangedBy:  buyerID,
		Reason:     "amended and resubmitted",
		ChangedAt:  now,
	})

	if err := qtx.Update(ctx, f); err != nil {
		s.logger.Error("amend transfer form persist failed", zap.Error(err))
		return TransferFormResponse{}, err
	}

	s.syncOrder(ctx, tx, f, order.StatusUnderReview, buyerID, "transfer form resubmitted", now)

	if err := tx.Commit(); err != nil {
		return TransferFormResponse{}, err
	}

	s.logger.Info("amend transfer form success", zap.String("form_id", id))
	return mapToResponse(*f), nil
}

func (s *service) AddComment(ctx context.Context, authorID, id string, req AddCommentRequest) (TransferFormResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransferFormResponse{}, transferformerrors.ErrInvalidFormID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TransferFormResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	f, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransferFormResponse{}, transferformerrors.ErrFormNotFound
		}
		return TransferFormResponse{}, err
	}

	f.Comments = append(f.Comments, Comment{
		AuthorID: authorID,
		Body:     req.Body,
		PostedAt: time.Now().UTC(),
	})

	if err := qtx.Update(ctx, f); err != nil {
		return TransferFormResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TransferFormResponse{}, err
	}
	return mapToResponse(*f), nil
}

// Transition drives the review pipeline. Completing the transfer also
// completes the order and hands the company to the buyer, atomically.
func (s *service) Transition(ctx context.Context, id, actorID string, req TransitionTransferFormRequest) (TransferFormResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransferFormResponse{}, transferformerrors.ErrInvalidFormID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TransferFormResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	f, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransferFormResponse{}, transferformerrors.ErrFormNotFound
		}
		return TransferFormResponse{}, err
	}

	if !IsAllowedTransition(f.Status, req.Status) {
		s.logger.Warn("transfer form transition rejected",
			zap.String("form_id", id),
			zap.String("from", f.Status),
			zap.String("to", req.Status),
		)
		return TransferFormResponse{}, transferformerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	from := f.Status
	f.Status = req.Status
	f.StatusHistory = append(f.StatusHistory, StatusChange{
		FromStatus: from,
		ToStatus:   req.Status,
		ChangedBy:  actorID,
		Reason:     req.Reason,
		ChangedAt:  now,
	})

	switch req.Status {
	case StatusAmendRequired:
		s.syncOrder(ctx, tx, f, order.StatusAmendRequired, actorID, req.Reason, now)
	case StatusUnderReview:
		s.syncOrder(ctx, tx, f, order.StatusUnderReview, actorID, req.Reason, now)
	case StatusConfirmApplication:
		s.syncOrder(ctx, tx, f, order.StatusPendingTransfer, actorID, "transfer application confirmed", now)
	case StatusCompleteTransfer:
		if err := s.completeTransfer(ctx, tx, f, actorID, now); err != nil {
			return TransferFormResponse{}, err
		}
	}

	if err := qtx.Update(ctx, f); err != nil {
		s.logger.Error("transfer form transition persist failed", zap.Error(err))
		return TransferFormResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TransferFormResponse{}, err
	}

	s.logger.Info("transfer form transition success",
		zap.String("form_id", id),
		zap.String("from", from),
		zap.String("to", req.Status),
	)
	return mapToResponse(*f), nil
}

// syncOrder mirrors a form status onto its order where the order's own
// transition table allows it; review statuses track each other but the order
// may have been moved independently by an admin.
func (s *service) syncOrder(ctx context.Context, tx *sql.Tx, f *TransferForm, target, actorID, reason string, now time.Time) {
	orderTx := s.orders.WithTx(tx)
	o, err := orderTx.FindByIDForUpdate(ctx, f.OrderID.String())
	if err != nil {
		s.logger.Warn("sync order load failed", zap.String("order_id", f.OrderID.String()), zap.Error(err))
		return
	}
	if !order.IsAllowedTransition(o.Status, target) {
		s.logger.Warn("sync order transition skipped",
			zap.String("order_id", o.ID.String()),
			zap.String("from", o.Status),
			zap.String("to", target),
		)
		return
	}
	from := o.Status
	o.Status = target
	o.StatusHistory = append(o.StatusHistory, order.StatusChange{
		FromStatus: from,
		ToStatus:   target,
		ChangedBy:  actorID,
		Reason:     reason,
		ChangedAt:  now,
	})
	if err := orderTx.Update(ctx, o); err != nil {
		s.logger.Error("sync order persist failed", zap.Error(err))
	}
}

// completeTransfer is the one transition with hard side effects: the order
// must be in pending_transfer, and the company changes hands.
func (s *service) completeTransfer(ctx context.Context, tx *sql.Tx, f *TransferForm, actorID string, now time.Time) error {
	orderTx := s.orders.WithTx(tx)
	o, err := orderTx.FindByIDForUpdate(ctx, f.OrderID.String())
	if err != nil {
		return err
	}
	if !order.IsAllowedTransition(o.Status, order.StatusCompleted) {
		return transferformerrors.ErrInvalidStatusTransition
	}

	from := o.Status
	o.Status = order.StatusCompleted
	o.StatusHistory = append(o.StatusHistory, order.StatusChange{
		FromStatus: from,
		ToStatus:   order.StatusCompleted,
		ChangedBy:  actorID,
		Reason:     "ownership transfer completed",
		ChangedAt:  now,
	})
	if err := orderTx.Update(ctx, o); err != nil {
		return err
	}

	companyTx := s.companies.WithTx(tx)
	comp, err := companyTx.FindByIDForUpdate(ctx, f.CompanyID.String())
	if err != nil {
		return err
	}

	entry := company.OwnershipEntry{
		ToOwnerID:     f.BuyerID.String(),
		OrderID:       o.ID.String(),
		TransferredAt: now,
	}
	if comp.OwnerID != nil {
		entry.FromOwnerID = comp.OwnerID.String()
	}
	buyer := f.BuyerID
	comp.OwnershipHistory = append(comp.OwnershipHistory, entry)
	comp.OwnerID = &buyer
	comp.Status = company.StatusSold
	comp.ActivityLog = append(comp.ActivityLog, company.ActivityEntry{
		Action:      "ownership_transferred",
		Description: "transferred to " + f.BuyerID.String() + " via order " + o.OrderNumber,
		ActorID:     actorID,
		OccurredAt:  now,
	})
	if err := companyTx.Update(ctx, comp); err != nil {
		return err
	}

	return s.enqueueTransferredEvent(ctx, tx, f, entry.FromOwnerID, contextutil.GetRequestID(ctx), now)
}

func (s *service) enqueueTransferredEvent(ctx context.Context, tx *sql.Tx, f *TransferForm, fromOwnerID, requestID string, now time.Time) error {
	if s.outbox == nil {
		return nil
	}
	event := events.CompanyTransferredEvent{
		EventType:   "company_transferred",
		CompanyID:   f.CompanyID.String(),
		FromOwnerID: fromOwnerID,
		ToOwnerID:   f.BuyerID.String(),
		OrderID:     f.OrderID.String(),
		OccurredAt:  now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: "company",
		AggregateID:   f.CompanyID.String(),
		EventType:     "company_transferred",
		Topic:         events.CompanyTransferredTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("company transferred outbox persist failed",
			zap.String("company_id", f.CompanyID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func mapToResponse(f TransferForm) TransferFormResponse {
	return TransferFormResponse{
		ID:            f.ID.String(),
		OrderID:       f.OrderID.String(),
		CompanyID:     f.CompanyID.String(),
		BuyerID:       f.BuyerID.String(),
		BuyerName:     f.BuyerName,
		BuyerEmail:    f.BuyerEmail,
		BuyerPhone:    f.BuyerPhone,
		BuyerAddress:  f.BuyerAddress,
		SellerName:    f.SellerName,
		SellerEmail:   f.SellerEmail,
		SellerAddress: f.SellerAddress,
		Status:        f.Status,
		NextStatuses:  NextStatuses(f.Status),
		StatusHistory: f.StatusHistory,
		Comments:      f.Comments,
		Attachments:   f.Attachments,
		CreatedAt:     f.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(forms []TransferForm) []TransferFormResponse {
	out := make([]TransferFormResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, mapToResponse(f))
	}
	return out
}
