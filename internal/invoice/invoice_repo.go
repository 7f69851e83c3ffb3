package invoice

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=invoice_repo.go -destination=mock/invoice_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, inv *Invoice) error
	FindAll(ctx context.Context, filter ListInvoicesFilterRequest) ([]Invoice, error)
	FindByID(ctx context.Context, id string) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Invoice, error)
	FindByOrderID(ctx context.Context, orderID string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error
	AnalyticsSummary(ctx context.Context, now time.Time) (AnalyticsSummary, error)
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

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return r.conn(ctx).Create(inv).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListInvoicesFilterRequest) ([]Invoice, error) {
	db := r.conn(ctx).Model(&Invoice{})

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}

	var invoices []Invoice
	err := db.Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	err := r.conn(ctx).First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*Invoice, error) {
	var inv Invoice
	err := r.conn(ctx).First(&inv, "order_id = ?", orderID).Error
	return &inv, err
}

func (r *repository) Update(ctx context.Context, inv *Invoice) error {
	return r.conn(ctx).Save(inv).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Invoice{}, "id = ?", id).Error
}

// AnalyticsSummary aggregates in SQL instead of scanning rows in Go; the
// overdue count applies the same due-date rule as DisplayStatus.
func (r *repository) AnalyticsSummary(ctx context.Context, now time.Time) (AnalyticsSummary, error) {
	var summary AnalyticsSummary
	err := r.conn(ctx).Raw(`
		SELECT
			COUNT(*)                                                        AS total_invoices,
			COALESCE(SUM(total), 0)                                         AS total_billed,
			COALESCE(SUM(amount_paid), 0)                                   AS total_collected,
			COALESCE(SUM(total - amount_paid), 0)                           AS total_outstanding,
			COUNT(*) FILTER (WHERE status = 'pending')                      AS count_pending,
			COUNT(*) FILTER (WHERE status = 'partial')                      AS count_partial,
			COUNT(*) FILTER (WHERE status = 'paid')                         AS count_paid,
			COUNT(*) FILTER (WHERE status = 'refunded')                     AS count_refunded,
			COUNT(*) FILTER (WHERE status IN ('pending', 'partial')
				AND due_date < ?)                                           AS count_overdue
		FROM invoices
		WHERE deleted_at IS NULL
	`, now).Scan(&summary).Error
	return summary, err
}
