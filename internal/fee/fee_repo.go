package fee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=fee_repo.go -destination=mock/fee_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, f *Fee) error
	FindAll(ctx context.Context) ([]Fee, error)
	FindEnabled(ctx context.Context) ([]Fee, error)
	FindByID(ctx context.Context, id string) (*Fee, error)
	Update(ctx context.Context, f *Fee) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Fee) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Fee, error) {
	var fees []Fee
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&fees).Error
	return fees, err
}

func (r *repository) FindEnabled(ctx context.Context) ([]Fee, error) {
	var fees []Fee
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("created_at ASC").
		Find(&fees).Error
	return fees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Fee, error) {
	var f Fee
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	return &f, err
}

func (r *repository) Update(ctx context.Context, f *Fee) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Fee{}, "id = ?", id).Error
}
