package coupon

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=coupon_repo.go -destination=mock/coupon_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cp *Coupon) error
	FindAll(ctx context.Context) ([]Coupon, error)
	FindByID(ctx context.Context, id string) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	Update(ctx context.Context, cp *Coupon) error
	IncrementUsage(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds queries to the caller's transaction when one is set.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, cp *Coupon) error {
	return r.conn(ctx).Create(cp).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Coupon, error) {
	var coupons []Coupon
	err := r.conn(ctx).Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Coupon, error) {
	var cp Coupon
	err := r.conn(ctx).First(&cp, "id = ?", id).Error
	return &cp, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	var cp Coupon
	err := r.conn(ctx).First(&cp, "code = ?", code).Error
	return &cp, err
}

func (r *repository) Update(ctx context.Context, cp *Coupon) error {
	return r.conn(ctx).Save(cp).Error
}

func (r *repository) IncrementUsage(ctx context.Context, id string) error {
	return r.conn(ctx).
		Model(&Coupon{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Coupon{}, "id = ?", id).Error
}
