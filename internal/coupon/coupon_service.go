package coupon

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	couponerrors "shelfmarket/internal/coupon/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=coupon_service.go -destination=mock/coupon_service_mock.go -package=mock
type Service interface {
	// WithTx returns a Service whose writes run on the caller's transaction,
	// so a redemption commits or rolls back with the order that used it.
	WithTx(tx *sql.Tx) Service

	Create(ctx context.Context, req CreateCouponRequest) (CouponResponse, error)
	GetAll(ctx context.Context) ([]CouponResponse, error)
	Update(ctx context.Context, id string, req UpdateCouponRequest) (CouponResponse, error)
	Delete(ctx context.Context, id string) error

	// Validate checks a code against the current total and returns the
	// discount and the discounted total. Invalid codes return typed errors.
	Validate(ctx context.Context, code string, currentTotal float64) (ValidationResult, error)

	// Redeem bumps the usage counter after an order using the coupon is
	// actually placed.
	Redeem(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("coupon.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("coupon.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) WithTx(tx *sql.Tx) Service {
	return &service{repo: s.repo.WithTx(tx), logger: s.logger}
}

func (s *service) Create(ctx context.Context, req CreateCouponRequest) (CouponResponse, error) {
	cp := &Coupon{
		ID:           uuid.New(),
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType: req.DiscountType,
		Amount:       req.Amount,
		Active:       true,
		UsageLimit:   req.UsageLimit,
	}

	if req.ExpiresAt != "" {
		t, err := time.Parse("2006-01-02", req.ExpiresAt)
		if err != nil {
			return CouponResponse{}, couponerrors.ErrInvalidDateFormat
		}
		cp.ExpiresAt = &t
	}

	if err := s.repo.Create(ctx, cp); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return CouponResponse{}, couponerrors.ErrDuplicateCode
		}
		s.logger.Error("create coupon persist failed", zap.Error(err))
		return CouponResponse{}, err
	}

	s.logger.Info("create coupon success", zap.String("code", cp.Code))
	return mapToResponse(*cp), nil
}

func (s *service) GetAll(ctx context.Context) ([]CouponResponse, error) {
	coupons, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CouponResponse, len(coupons))
	for i, cp := range coupons {
		resp[i] = mapToResponse(cp)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCouponRequest) (CouponResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CouponResponse{}, couponerrors.ErrInvalidCouponID
	}

	cp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CouponResponse{}, couponerrors.ErrCouponNotFound
		}
		return CouponResponse{}, err
	}

	if req.DiscountType != "" {
		cp.DiscountType = req.DiscountType
	}
	if req.Amount != nil {
		cp.Amount = *req.Amount
	}
	if req.Active != nil {
		cp.Active = *req.Active
	}
	if req.UsageLimit != nil {
		cp.UsageLimit = *req.UsageLimit
	}
	if req.ExpiresAt != "" {
		t, err := time.Parse("2006-01-02", req.ExpiresAt)
		if err != nil {
			return CouponResponse{}, couponerrors.ErrInvalidDateFormat
		}
		cp.ExpiresAt = &t
	}

	if err := s.repo.Update(ctx, cp); err != nil {
		s.logger.Error("update coupon persist failed", zap.String("coupon_id", id), zap.Error(err))
		return CouponResponse{}, err
	}

	return mapToResponse(*cp), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return couponerrors.ErrInvalidCouponID
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Validate(ctx context.Context, code string, currentTotal float64) (ValidationResult, error) {
	cp, err := s.repo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ValidationResult{}, couponerrors.ErrCouponNotFound
		}
		return ValidationResult{}, err
	}

	if !cp.Active {
		return ValidationResult{}, couponerrors.ErrCouponInactive
	}
	if cp.ExpiresAt != nil && cp.ExpiresAt.Before(time.Now().UTC()) {
		return ValidationResult{}, couponerrors.ErrCouponExpired
	}
	if cp.UsageLimit > 0 && cp.UsedCount >= cp.UsageLimit {
		return ValidationResult{}, couponerrors.ErrCouponExhausted
	}

	discount := Discount(cp, currentTotal)

	return ValidationResult{
		Valid:           true,
		Discount:        discount,
		DiscountedTotal: currentTotal - discount,
		Coupon:          mapToResponse(*cp),
	}, nil
}

func (s *service) Redeem(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return couponerrors.ErrInvalidCouponID
	}
	return s.repo.IncrementUsage(ctx, id)
}

// Discount resolves the coupon against a total. A flat discount is capped at
// the total so the result never goes negative.
func Discount(cp *Coupon, total float64) float64 {
	var discount float64
	switch cp.DiscountType {
	case DiscountPercentage:
		discount = total * cp.Amount / 100
	default:
		discount = cp.Amount
	}

	if discount > total {
		discount = total
	}
	return discount
}

func mapToResponse(cp Coupon) CouponResponse {
	resp := CouponResponse{
		ID:           cp.ID.String(),
		Code:         cp.Code,
		DiscountType: cp.DiscountType,
		Amount:       cp.Amount,
		Active:       cp.Active,
		UsageLimit:   cp.UsageLimit,
		UsedCount:    cp.UsedCount,
	}
	if cp.ExpiresAt != nil {
		v := cp.ExpiresAt.Format("2006-01-02")
		resp.ExpiresAt = &v
	}
	return resp
}
