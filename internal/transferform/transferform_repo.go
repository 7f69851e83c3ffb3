package transferform

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=transferform_repo.go -destination=mock/transferform_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, f *TransferForm) error
	FindAll(ctx context.Context, filter ListTransferFormsFilterRequest) ([]TransferForm, error)
	FindByID(ctx context.Context, id string) (*TransferForm, error)
	FindByIDForUpdate(ctx context.Context, id string) (*TransferForm, error)
	FindByOrderID(ctx context.Context, orderID string) (*TransferForm, error)
	FindByBuyer(ctx context.Context, buyerID string) ([]TransferForm, error)
	Update(ctx context.Context, f *TransferForm) error
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

func (r *repository) Create(ctx context.Context, f *TransferForm) error {
	return r.conn(ctx).Create(f).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListTransferFormsFilterRequest) ([]TransferForm, error) {
	db := r.conn(ctx).Model(&TransferForm{})

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var forms []TransferForm
	err := db.Order("created_at DESC").Find(&forms).Error
	return forms, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*TransferForm, error) {
	var f TransferForm
	err := r.conn(ctx).First(&f, "id = ?", id).Error
	return &f, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*TransferForm, error) {
	var f TransferForm
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*TransferForm, error) {
	var f TransferForm
	err := r.conn(ctx).First(&f, "order_id = ?", orderID).Error
	return &f, err
}

func (r *repository) FindByBuyer(ctx context.Context, buyerID string) ([]TransferForm, error) {
	var forms []TransferForm
	err := r.conn(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&forms).Error
	return forms, err
}

func (r *repository) Update(ctx context.Context, f *TransferForm) error {
	return r.conn(ctx).Save(f).Error
}
