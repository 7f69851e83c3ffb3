package catalog

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=catalog_repo.go -destination=mock/catalog_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, s *CatalogService) error
	FindAll(ctx context.Context, filter ListServicesFilterRequest) ([]CatalogService, error)
	FindActive(ctx context.Context) ([]CatalogService, error)
	FindByID(ctx context.Context, id string) (*CatalogService, error)
	Update(ctx context.Context, s *CatalogService) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *CatalogService) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListServicesFilterRequest) ([]CatalogService, error) {
	db := r.db.WithContext(ctx).Model(&CatalogService{})

	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Active != nil {
		db = db.Where("active = ?", *filter.Active)
	}

	var services []CatalogService
	err := db.Order("name ASC").Find(&services).Error
	return services, err
}

func (r *repository) FindActive(ctx context.Context) ([]CatalogService, error) {
	var services []CatalogService
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&services).Error
	return services, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*CatalogService, error) {
	var s CatalogService
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) Update(ctx context.Context, s *CatalogService) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&CatalogService{}, "id = ?", id).Error
}
