package serviceorder

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=serviceorder_repo.go -destination=mock/serviceorder_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, o *ServiceOrder) error
	FindAll(ctx context.Context, filter ListServiceOrdersFilterRequest) ([]ServiceOrder, error)
	FindByID(ctx context.Context, id string) (*ServiceOrder, error)
	FindByIDForUpdate(ctx context.Context, id string) (*ServiceOrder, error)
	FindByCustomer(ctx context.Context, customerID string) ([]ServiceOrder, error)
	Update(ctx context.Context, o *ServiceOrder) error
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

func (r *repository) Create(ctx context.Context, o *ServiceOrder) error {
	return r.conn(ctx).Create(o).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListServiceOrdersFilterRequest) ([]ServiceOrder, error) {
	db := r.conn(ctx).Model(&ServiceOrder{})

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.ServiceID != "" {
		db = db.Where("service_id = ?", filter.ServiceID)
	}

	var orders []ServiceOrder
	err := db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*ServiceOrder, error) {
	var o ServiceOrder
	err := r.conn(ctx).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*ServiceOrder, error) {
	var o ServiceOrder
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *repository) FindByCustomer(ctx context.Context, customerID string) ([]ServiceOrder, error) {
	var orders []ServiceOrder
	err := r.conn(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) Update(ctx context.Context, o *ServiceOrder) error {
	return r.conn(ctx).Save(o).Error
}
