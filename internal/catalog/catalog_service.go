package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	catalogerrors "shelfmarket/internal/catalog/errors"
)

const (
	ActiveServicesCacheKey = "services:active"
	activeServicesCacheTTL = time.Hour
)

//go:generate mockgen -source=catalog_service.go -destination=mock/catalog_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateServiceRequest) (ServiceResponse, error)
	GetAll(ctx context.Context, filter ListServicesFilterRequest) ([]ServiceResponse, error)
	GetActive(ctx context.Context) ([]ServiceResponse, error)
	GetByID(ctx context.Context, id string) (ServiceResponse, error)
	Update(ctx context.Context, id string, req UpdateServiceRequest) (ServiceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("catalog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateServiceRequest) (ServiceResponse, error) {
	fields, err := buildFormFields(req.FormFields)
	if err != nil {
		return ServiceResponse{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	svc := &CatalogService{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Currency:    currency,
		Active:      true,
		FormFields:  fields,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return ServiceResponse{}, catalogerrors.ErrDuplicateName
		}
		s.logger.Error("create service persist failed", zap.Error(err))
		return ServiceResponse{}, err
	}

	s.invalidateActive(ctx)
	s.logger.Info("create service success", zap.String("service_id", svc.ID.String()), zap.String("name", svc.Name))
	return mapToResponse(*svc), nil
}

func (s *service) GetAll(ctx context.Context, filter ListServicesFilterRequest) ([]ServiceResponse, error) {
	services, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all services failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(services), nil
}

// GetActive serves the public catalog. The list changes rarely, so it is
// cached and concurrent misses collapse into one query.
func (s *service) GetActive(ctx context.Context) ([]ServiceResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ActiveServicesCacheKey).Result(); err == nil {
			var resp []ServiceResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(ActiveServicesCacheKey, func() (interface{}, error) {
		services, err := s.repo.FindActive(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(services)

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = s.rdb.Set(ctx, ActiveServicesCacheKey, payload, activeServicesCacheTTL).Err()
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get active services failed", zap.Error(err))
		return nil, err
	}
	return v.([]ServiceResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ServiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ServiceResponse{}, catalogerrors.ErrInvalidServiceID
	}
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ServiceResponse{}, catalogerrors.ErrServiceNotFound
		}
		return ServiceResponse{}, err
	}
	return mapToResponse(*svc), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateServiceRequest) (ServiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ServiceResponse{}, catalogerrors.ErrInvalidServiceID
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ServiceResponse{}, catalogerrors.ErrServiceNotFound
		}
		return ServiceResponse{}, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	if req.FormFields != nil {
		fields, err := buildFormFields(req.FormFields)
		if err != nil {
			return ServiceResponse{}, err
		}
		svc.FormFields = fields
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return ServiceResponse{}, catalogerrors.ErrDuplicateName
		}
		s.logger.Error("update service persist failed", zap.Error(err))
		return ServiceResponse{}, err
	}

	s.invalidateActive(ctx)
	s.logger.Info("update service success", zap.String("service_id", id))
	return mapToResponse(*svc), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return catalogerrors.ErrInvalidServiceID
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalogerrors.ErrServiceNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete service failed", zap.Error(err))
		return err
	}

	s.invalidateActive(ctx)
	s.logger.Info("delete service success", zap.String("service_id", id))
	return nil
}

func (s *service) invalidateActive(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ActiveServicesCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate active services cache",
			zap.Error(err),
			zap.String("key", ActiveServicesCacheKey),
		)
	}
}

func buildFormFields(reqs []FormFieldRequest) (FormFields, error) {
	fields := make(FormFields, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, fr := range reqs {
		switch fr.Type {
		case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeSelect, FieldTypeFile, FieldTypeCheckbox:
		default:
			return nil, catalogerrors.ErrInvalidFieldType
		}
		name := strings.TrimSpace(fr.Name)
		if seen[name] {
			return nil, catalogerrors.ErrDuplicateFieldName
		}
		seen[name] = true
		fields = append(fields, FormField{
			Name:     name,
			Label:    fr.Label,
			Type:     fr.Type,
			Required: fr.Required,
			Options:  fr.Options,
		})
	}
	return fields, nil
}

func mapToResponse(svc CatalogService) ServiceResponse {
	return ServiceResponse{
		ID:          svc.ID.String(),
		Name:        svc.Name,
		Description: svc.Description,
		Category:    svc.Category,
		Price:       svc.Price,
		Currency:    svc.Currency,
		Active:      svc.Active,
		FormFields:  svc.FormFields,
		CreatedAt:   svc.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(services []CatalogService) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, mapToResponse(svc))
	}
	return out
}
