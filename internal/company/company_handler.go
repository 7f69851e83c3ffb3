package company

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shelfmarket/internal/shared/apperror"
	"shelfmarket/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StorefrontCacheKey = "companies:available"
	storefrontCacheTTL = 30 * time.Second
)

type Handler struct {
	service Service
	rdb     *redis.Client
	sf      singleflight.Group
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("company.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("company request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// ListAvailable serves the public storefront. The listing is cached in Redis
// and concurrent cache misses are collapsed into a single DB query.
func (h *Handler) ListAvailable(c *gin.Context) {
	ctx := c.Request.Context()

	if h.rdb != nil {
		if val, err := h.rdb.Get(ctx, StorefrontCacheKey).Result(); err == nil {
			var cached []CompanyResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				response.Success(c, http.StatusOK, cached, nil)
				return
			}
		}
	}

	v, err, _ := h.sf.Do(StorefrontCacheKey, func() (any, error) {
		resp, err := h.service.ListAvailable(ctx)
		if err != nil {
			return nil, err
		}

		if h.rdb != nil {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(ctx, StorefrontCacheKey, payload, storefrontCacheTTL).Err()
			}
		}
		return resp, nil
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, v.([]CompanyResponse), nil)
}

func (h *Handler) Create(c *gin.Context) {
	actorID := c.GetString("user_id_validated")

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create company validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.invalidateStorefront(c)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()

	var filter ListCompaniesFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.GetAll(ctx, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	actorID := c.GetString("user_id_validated")
	id := c.Param("id")

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update company validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.invalidateStorefront(c)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.invalidateStorefront(c)
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) AutoUpdateStatus(c *gin.Context) {
	h.transition(c, func(actorID, id string) (CompanyResponse, error) {
		return h.service.AutoUpdateStatus(c.Request.Context(), actorID, id)
	})
}

func (h *Handler) Renew(c *gin.Context) {
	h.transition(c, func(actorID, id string) (CompanyResponse, error) {
		return h.service.ProcessRenewal(c.Request.Context(), actorID, id)
	})
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Refund(c *gin.Context) {
	var req reasonRequest
	_ = c.ShouldBindJSON(&req)
	h.transition(c, func(actorID, id string) (CompanyResponse, error) {
		return h.service.ProcessRefund(c.Request.Context(), actorID, id, req.Reason)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	var req reasonRequest
	_ = c.ShouldBindJSON(&req)
	h.transition(c, func(actorID, id string) (CompanyResponse, error) {
		return h.service.Cancel(c.Request.Context(), actorID, id, req.Reason)
	})
}

func (h *Handler) Reactivate(c *gin.Context) {
	h.transition(c, func(actorID, id string) (CompanyResponse, error) {
		return h.service.Reactivate(c.Request.Context(), actorID, id)
	})
}

func (h *Handler) TransferOwnership(c *gin.Context) {
	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	h.transition(c, func(actorID, id string) (CompanyResponse, error) {
		return h.service.TransferOwnership(c.Request.Context(), actorID, id, req)
	})
}

func (h *Handler) RenewalReminders(c *gin.Context) {
	windowDays, _ := strconv.Atoi(c.DefaultQuery("window_days", "30"))
	if windowDays < 1 {
		windowDays = 30
	}

	resp, err := h.service.RenewalReminders(c.Request.Context(), windowDays)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) transition(c *gin.Context, fn func(actorID, id string) (CompanyResponse, error)) {
	actorID := c.GetString("user_id_validated")
	id := c.Param("id")

	resp, err := fn(actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.invalidateStorefront(c)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) invalidateStorefront(c *gin.Context) {
	if h.rdb != nil {
		_ = h.rdb.Del(c.Request.Context(), StorefrontCacheKey).Err()
	}
}
