package coupon_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"shelfmarket/internal/coupon"
	couponerrors "shelfmarket/internal/coupon/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCouponRepo struct {
	createFn         func(ctx context.Context, cp *coupon.Coupon) error
	findByCodeFn     func(ctx context.Context, code string) (*coupon.Coupon, error)
	incrementUsageFn func(ctx context.Context, id string) error
}

func (f *fakeCouponRepo) WithTx(tx *sql.Tx) coupon.Repository { return f }
func (f *fakeCouponRepo) Create(ctx context.Context, cp *coupon.Coupon) error {
	if f.createFn != nil {
		return f.createFn(ctx, cp)
	}
	return nil
}
func (f *fakeCouponRepo) FindAll(ctx context.Context) ([]coupon.Coupon, error) { return nil, nil }
func (f *fakeCouponRepo) FindByID(ctx context.Context, id string) (*coupon.Coupon, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCouponRepo) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCouponRepo) Update(ctx context.Context, cp *coupon.Coupon) error { return nil }
func (f *fakeCouponRepo) IncrementUsage(ctx context.Context, id string) error {
	if f.incrementUsageFn != nil {
		return f.incrementUsageFn(ctx, id)
	}
	return nil
}
func (f *fakeCouponRepo) Delete(ctx context.Context, id string) error { return nil }

func activeCoupon(discountType string, amount float64) *coupon.Coupon {
	return &coupon.Coupon{
		ID:           uuid.New(),
		Code:         "LAUNCH10",
		DiscountType: discountType,
		Amount:       amount,
		Active:       true,
	}
}

func TestCouponService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("percentage discount", func(t *testing.T) {
		repo := &fakeCouponRepo{
			findByCodeFn: func(ctx context.Context, code string) (*coupon.Coupon, error) {
				assert.Equal(t, "LAUNCH10", code)
				return activeCoupon(coupon.DiscountPercentage, 10), nil
			},
		}
		svc := coupon.NewService(repo)

		result, err := svc.Validate(ctx, " launch10 ", 1000)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, 100.0, result.Discount)
		assert.Equal(t, 900.0, result.DiscountedTotal)
		assert.Equal(t, "LAUNCH10", result.Coupon.Code)
	})

	t.Run("flat discount capped at the total", func(t *testing.T) {
		repo := &fakeCouponRepo{
			findByCodeFn: func(ctx context.Context, code string) (*coupon.Coupon, error) {
				return activeCoupon(coupon.DiscountFlat, 500), nil
			},
		}
		svc := coupon.NewService(repo)

		result, err := svc.Validate(ctx, "LAUNCH10", 300)
		require.NoError(t, err)
		assert.Equal(t, 300.0, result.Discount)
		assert.Equal(t, 0.0, result.DiscountedTotal)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc := coupon.NewService(&fakeCouponRepo{})

		_, err := svc.Validate(ctx, "NOPE", 100)
		assert.ErrorIs(t, err, couponerrors.ErrCouponNotFound)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		repo := &fakeCouponRepo{
			findByCodeFn: func(ctx context.Context, code string) (*coupon.Coupon, error) {
				cp := activeCoupon(coupon.DiscountFlat, 50)
				cp.Active = false
				return cp, nil
			},
		}
		svc := coupon.NewService(repo)

		_, err := svc.Validate(ctx, "LAUNCH10", 100)
		assert.ErrorIs(t, err, couponerrors.ErrCouponInactive)
	})

	t.Run("expired coupon", func(t *testing.T) {
		repo := &fakeCouponRepo{
			findByCodeFn: func(ctx context.Context, code string) (*coupon.Coupon, error) {
				cp := activeCoupon(coupon.DiscountFlat, 50)
				past := time.Now().UTC().Add(-24 * time.Hour)
				cp.ExpiresAt = &past
				return cp, nil
			},
		}
		svc := coupon.NewService(repo)

		_, err := svc.Validate(ctx, "LAUNCH10", 100)
		assert.ErrorIs(t, err, couponerrors.ErrCouponExpired)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		repo := &fakeCouponRepo{
			findByCodeFn: func(ctx context.Context, code string) (*coupon.Coupon, error) {
				cp := activeCoupon(coupon.DiscountFlat, 50)
				cp.UsageLimit = 3
				cp.UsedCount = 3
				return cp, nil
			},
		}
		svc := coupon.NewService(repo)

		_, err := svc.Validate(ctx, "LAUNCH10", 100)
		assert.ErrorIs(t, err, couponerrors.ErrCouponExhausted)
	})

	t.Run("zero usage limit means unlimited", func(t *testing.T) {
		repo := &fakeCouponRepo{
			findByCodeFn: func(ctx context.Context, code string) (*coupon.Coupon, error) {
				cp := activeCoupon(coupon.DiscountFlat, 50)
				cp.UsageLimit = 0
				cp.UsedCount = 10000
				return cp, nil
			},
		}
		svc := coupon.NewService(repo)

		result, err := svc.Validate(ctx, "LAUNCH10", 100)
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})
}

func TestCouponService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("uppercases the code", func(t *testing.T) {
		var created *coupon.Coupon
		repo := &fakeCouponRepo{
			createFn: func(ctx context.Context, cp *coupon.Coupon) error {
				created = cp
				return nil
			},
		}
		svc := coupon.NewService(repo)

		resp, err := svc.Create(ctx, coupon.CreateCouponRequest{
			Code:         " spring20 ",
			DiscountType: coupon.DiscountPercentage,
			Amount:       20,
		})
		require.NoError(t, err)
		assert.Equal(t, "SPRING20", resp.Code)
		assert.True(t, created.Active)
	})

	t.Run("rejects a malformed expiry date", func(t *testing.T) {
		svc := coupon.NewService(&fakeCouponRepo{})

		_, err := svc.Create(ctx, coupon.CreateCouponRequest{
			Code:         "X",
			DiscountType: coupon.DiscountFlat,
			Amount:       5,
			ExpiresAt:    "31-12-2026",
		})
		assert.ErrorIs(t, err, couponerrors.ErrInvalidDateFormat)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := &fakeCouponRepo{
			createFn: func(ctx context.Context, cp *coupon.Coupon) error {
				return errDuplicate{}
			},
		}
		svc := coupon.NewService(repo)

		_, err := svc.Create(ctx, coupon.CreateCouponRequest{
			Code:         "X",
			DiscountType: coupon.DiscountFlat,
			Amount:       5,
		})
		assert.ErrorIs(t, err, couponerrors.ErrDuplicateCode)
	})
}

type errDuplicate struct{}

func (errDuplicate) Error() string {
	return `ERROR: duplicate key value violates unique constraint "idx_coupons_code" (SQLSTATE 23505)`
}

func TestCouponService_Redeem(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps usage by id", func(t *testing.T) {
		var bumped string
		repo := &fakeCouponRepo{
			incrementUsageFn: func(ctx context.Context, id string) error {
				bumped = id
				return nil
			},
		}
		svc := coupon.NewService(repo)

		id := uuid.New().String()
		require.NoError(t, svc.Redeem(ctx, id))
		assert.Equal(t, id, bumped)
	})

	t.Run("rejects a non-uuid id", func(t *testing.T) {
		svc := coupon.NewService(&fakeCouponRepo{})
		assert.ErrorIs(t, svc.Redeem(ctx, "not-a-uuid"), couponerrors.ErrInvalidCouponID)
	})
}
