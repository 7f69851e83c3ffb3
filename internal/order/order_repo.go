package order

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=order_repo.go -destination=mock/order_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, o *Order) error
	FindAll(ctx context.Context, filter ListOrdersFilterRequest) ([]Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]Order, error)
	Update(ctx context.Context, o *Order) error
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

func (r *repository) Create(ctx context.Context, o *Order) error {
	return r.conn(ctx).Create(o).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListOrdersFilterRequest) ([]Order, error) {
	db := r.conn(ctx).Model(&Order{})

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}

	var orders []Order
	err := db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.conn(ctx).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *repository) FindByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	var orders []Order
	err := r.conn(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) Update(ctx context.Context, o *Order) error {
	return r.conn(ctx).Save(o).Error
}
