package fee

import (
	"context"
	"errors"

	feeerrors "shelfmarket/internal/fee/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=fee_service.go -destination=mock/fee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateFeeRequest) (FeeResponse, error)
	GetAll(ctx context.Context) ([]FeeResponse, error)
	Update(ctx context.Context, id string, req UpdateFeeRequest) (FeeResponse, error)
	Delete(ctx context.Context, id string) error

	// Quote applies all enabled fees to the given subtotal.
	Quote(ctx context.Context, subtotal float64) (Breakdown, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("fee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("fee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateFeeRequest) (FeeResponse, error) {
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	f := &Fee{
		ID:      uuid.New(),
		Name:    req.Name,
		Type:    req.Type,
		Amount:  req.Amount,
		Enabled: enabled,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.logger.Error("create fee persist failed", zap.Error(err))
		return FeeResponse{}, err
	}

	return mapToResponse(*f), nil
}

func (s *service) GetAll(ctx context.Context) ([]FeeResponse, error) {
	fees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]FeeResponse, len(fees))
	for i, f := range fees {
		resp[i] = mapToResponse(f)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateFeeRequest) (FeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return FeeResponse{}, feeerrors.ErrInvalidFeeID
	}

	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FeeResponse{}, feeerrors.ErrFeeNotFound
		}
		return FeeResponse{}, err
	}

	if req.Name != "" {
		f.Name = req.Name
	}
	if req.Type != "" {
		f.Type = req.Type
	}
	if req.Amount != nil {
		f.Amount = *req.Amount
	}
	if req.Enabled != nil {
		f.Enabled = *req.Enabled
	}

	if err := s.repo.Update(ctx, f); err != nil {
		s.logger.Error("update fee persist failed", zap.String("fee_id", id), zap.Error(err))
		return FeeResponse{}, err
	}

	return mapToResponse(*f), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return feeerrors.ErrInvalidFeeID
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Quote(ctx context.Context, subtotal float64) (Breakdown, error) {
	defs, err := s.repo.FindEnabled(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	return ComputeFees(subtotal, defs), nil
}

func mapToResponse(f Fee) FeeResponse {
	return FeeResponse{
		ID:      f.ID.String(),
		Name:    f.Name,
		Type:    f.Type,
		Amount:  f.Amount,
		Enabled: f.Enabled,
	}
}
