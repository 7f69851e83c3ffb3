package company

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Company) error
	FindAll(ctx context.Context, filter ListCompaniesFilterRequest) ([]Company, error)
	FindByID(ctx context.Context, id string) (*Company, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Company, error)
	FindByStatus(ctx context.Context, status string) ([]Company, error)
	FindSweepCandidates(ctx context.Context, cutoff time.Time) ([]Company, error)
	Update(ctx context.Context, c *Company) error
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

func (r *repository) Create(ctx context.Context, c *Company) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListCompaniesFilterRequest) ([]Company, error) {
	db := r.conn(ctx).Model(&Company{})

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Country != "" {
		db = db.Where("country = ?", filter.Country)
	}
	if filter.LegalType != "" {
		db = db.Where("legal_type = ?", filter.LegalType)
	}
	if filter.OwnerID != "" {
		db = db.Where("owner_id = ?", filter.OwnerID)
	}

	var companies []Company
	err := db.Order("created_at DESC").Find(&companies).Error
	return companies, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Company, error) {
	var c Company
	err := r.conn(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Company, error) {
	var c Company
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) FindByStatus(ctx context.Context, status string) ([]Company, error) {
	var companies []Company
	err := r.conn(ctx).
		Where("status = ?", status).
		Order("renewal_date ASC").
		Find(&companies).Error
	return companies, err
}

// FindSweepCandidates returns companies whose automatic status may change:
// anything not in a holding state that is past due, plus refunded/cancelled
// stock waiting to be recycled.
func (r *repository) FindSweepCandidates(ctx context.Context, cutoff time.Time) ([]Company, error) {
	var companies []Company
	err := r.conn(ctx).
		Where("status NOT IN ?", []string{StatusAvailable, StatusPending}).
		Where("renewal_date <= ? OR status IN ?", cutoff, []string{StatusRefunded, StatusCancelled}).
		Find(&companies).Error
	return companies, err
}

func (r *repository) Update(ctx context.Context, c *Company) error {
	return r.conn(ctx).Save(c).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Company{}, "id = ?", id).Error
}
