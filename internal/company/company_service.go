package company

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	companyerrors "shelfmarket/internal/company/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateCompanyRequest) (CompanyResponse, error)
	GetAll(ctx context.Context, filter ListCompaniesFilterRequest) ([]CompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	ListAvailable(ctx context.Context) ([]CompanyResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, id string) error

	AutoUpdateStatus(ctx context.Context, actorID, id string) (CompanyResponse, error)
	ProcessRenewal(ctx context.Context, actorID, id string) (CompanyResponse, error)
	ProcessRefund(ctx context.Context, actorID, id, reason string) (CompanyResponse, error)
	Cancel(ctx context.Context, actorID, id, reason string) (CompanyResponse, error)
	Reactivate(ctx context.Context, actorID, id string) (CompanyResponse, error)
	TransferOwnership(ctx context.Context, actorID, id string, req TransferOwnershipRequest) (CompanyResponse, error)

	SweepStatuses(ctx context.Context) (int, error)
	RenewalReminders(ctx context.Context, windowDays int) ([]RenewalReminder, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateCompanyRequest) (CompanyResponse, error) {
	s.logger.Debug("create company requested",
		zap.String("actor_id", actorID),
		zap.String("number", req.Number),
	)

	incorporationDate, err := parseDate(req.IncorporationDate)
	if err != nil {
		return CompanyResponse{}, err
	}

	renewalDate := CalculateExpiryDate(incorporationDate)
	if req.RenewalDate != "" {
		renewalDate, err = parseDate(req.RenewalDate)
		if err != nil {
			return CompanyResponse{}, err
		}
	}

	c := &Company{
		ID:                uuid.New(),
		Name:              req.Name,
		Number:            req.Number,
		Country:           strings.ToUpper(req.Country),
		LegalType:         req.LegalType,
		IncorporationDate: incorporationDate,
		PurchasePrice:     req.PurchasePrice,
		RenewalFee:        req.RenewalFee,
		Currency:          strings.ToUpper(req.Currency),
		RenewalDate:       renewalDate,
		Status:            StatusAvailable,
		PaymentStatus:     "unpaid",
		Tags:              req.Tags,
		ActivityLog:       ActivityLog{},
		OwnershipHistory:  OwnershipHistory{},
	}
	appendActivity(c, "created", "company added to inventory", actorID)

	if err := s.repo.Create(ctx, c); err != nil {
		if isDuplicateKey(err) {
			return CompanyResponse{}, companyerrors.ErrDuplicateNumber
		}
		s.logger.Error("create company persist failed", zap.Error(err))
		return CompanyResponse{}, err
	}

	s.logger.Info("create company success",
		zap.String("company_id", c.ID.String()),
		zap.String("number", c.Number),
	)
	return mapToResponse(*c, true), nil
}

// GetAll backs the admin inventory table. Transient read failures are retried
// with doubling backoff, capped at three attempts.
func (s *service) GetAll(ctx context.Context, filter ListCompaniesFilterRequest) ([]CompanyResponse, error) {
	const maxAttempts = 3

	var companies []Company
	var err error
	backoff := 100 * time.Millisecond
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		companies, err = s.repo.FindAll(ctx, filter)
		if err == nil {
			break
		}
		if attempt == maxAttempts {
			break
		}
		s.logger.Warn("company list fetch failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(companies, true), nil
}

func (s *service) GetByID(ctx context.Context, id string) (CompanyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}
	return mapToResponse(*c, true), nil
}

// ListAvailable is the public storefront listing. Logs and history are
// stripped from the response.
func (s *service) ListAvailable(ctx context.Context) ([]CompanyResponse, error) {
	companies, err := s.repo.FindByStatus(ctx, StatusAvailable)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(companies, false), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateCompanyRequest) (CompanyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}

	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Country != "" {
		c.Country = strings.ToUpper(req.Country)
	}
	if req.LegalType != "" {
		c.LegalType = req.LegalType
	}
	if req.PurchasePrice != nil {
		c.PurchasePrice = *req.PurchasePrice
	}
	if req.RenewalFee != nil {
		c.RenewalFee = *req.RenewalFee
	}
	if req.RenewalDate != "" {
		renewalDate, err := parseDate(req.RenewalDate)
		if err != nil {
			return CompanyResponse{}, err
		}
		c.RenewalDate = renewalDate
	}
	if req.Tags != nil {
		c.Tags = req.Tags
	}
	appendActivity(c, "updated", "company details updated", actorID)

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("update company persist failed", zap.String("company_id", id), zap.Error(err))
		return CompanyResponse{}, err
	}

	return mapToResponse(*c, true), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return companyerrors.ErrInvalidCompanyID
	}
	return s.repo.Delete(ctx, id)
}

// AutoUpdateStatus recomputes the company's status from its renewal date.
// The call is idempotent: a second invocation sees the already-updated status
// and appends nothing.
func (s *service) AutoUpdateStatus(ctx context.Context, actorID, id string) (CompanyResponse, error) {
	return s.mutate(ctx, id, func(c *Company) error {
		now := time.Now().UTC()
		newStatus := DetermineStatus(c.RenewalDate, c.Status, now)
		if newStatus == c.Status {
			return errNoChange
		}

		oldStatus := c.Status
		c.Status = newStatus
		appendActivity(c, "status_changed", oldStatus+" -> "+newStatus, actorID)
		return nil
	})
}

func (s *service) ProcessRenewal(ctx context.Context, actorID, id string) (CompanyResponse, error) {
	return s.mutate(ctx, id, func(c *Company) error {
		c.RenewalDate = CalculateExpiryDate(c.RenewalDate)
		c.Status = DetermineStatus(c.RenewalDate, c.Status, time.Now().UTC())
		appendActivity(c, "renewed", "renewal fee paid, next renewal "+c.RenewalDate.Format("2006-01-02"), actorID)
		return nil
	})
}

func (s *service) ProcessRefund(ctx context.Context, actorID, id, reason string) (CompanyResponse, error) {
	return s.mutate(ctx, id, func(c *Company) error {
		if c.Status == StatusRefunded {
			return companyerrors.ErrAlreadyRefunded
		}
		c.Status = StatusRefunded
		c.RefundStatus = "refunded"
		c.PaymentStatus = "refunded"
		c.OwnerID = nil
		appendActivity(c, "refunded", reason, actorID)
		return nil
	})
}

func (s *service) Cancel(ctx context.Context, actorID, id, reason string) (CompanyResponse, error) {
	return s.mutate(ctx, id, func(c *Company) error {
		if c.Status == StatusCancelled {
			return companyerrors.ErrAlreadyCancelled
		}
		c.Status = StatusCancelled
		appendActivity(c, "cancelled", reason, actorID)
		return nil
	})
}

func (s *service) Reactivate(ctx context.Context, actorID, id string) (CompanyResponse, error) {
	return s.mutate(ctx, id, func(c *Company) error {
		if c.Status != StatusExpired && c.Status != StatusCancelled {
			return companyerrors.ErrReactivateNotAllowed
		}
		c.Status = StatusActive
		appendActivity(c, "reactivated", "company reactivated", actorID)
		return nil
	})
}

func (s *service) TransferOwnership(ctx context.Context, actorID, id string, req TransferOwnershipRequest) (CompanyResponse, error) {
	newOwner, err := uuid.Parse(req.NewOwnerID)
	if err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidOwnerID
	}

	return s.mutate(ctx, id, func(c *Company) error {
		entry := OwnershipEntry{
			ToOwnerID:     newOwner.String(),
			OrderID:       req.OrderID,
			TransferredAt: time.Now().UTC(),
		}
		if c.OwnerID != nil {
			entry.FromOwnerID = c.OwnerID.String()
		}
		c.OwnershipHistory = append(c.OwnershipHistory, entry)
		c.OwnerID = &newOwner
		c.Status = StatusSold
		appendActivity(c, "ownership_transferred", "transferred to "+newOwner.String(), actorID)
		return nil
	})
}

// SweepStatuses runs one auto-status pass over the sweep candidates and
// returns how many companies actually changed.
func (s *service) SweepStatuses(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	candidates, err := s.repo.FindSweepCandidates(ctx, now)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range candidates {
		c := &candidates[i]
		newStatus := DetermineStatus(c.RenewalDate, c.Status, now)
		if newStatus == c.Status {
			continue
		}

		oldStatus := c.Status
		c.Status = newStatus
		appendActivity(c, "status_changed", oldStatus+" -> "+newStatus, "system")

		if err := s.repo.Update(ctx, c); err != nil {
			s.logger.Error("sweep status persist failed",
				zap.String("company_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		changed++
	}

	if changed > 0 {
		s.logger.Info("status sweep complete",
			zap.Int("candidates", len(candidates)),
			zap.Int("changed", changed),
		)
	}
	return changed, nil
}

func (s *service) RenewalReminders(ctx context.Context, windowDays int) ([]RenewalReminder, error) {
	companies, err := s.repo.FindAll(ctx, ListCompaniesFilterRequest{})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reminders := make([]RenewalReminder, 0)
	for i := range companies {
		if r := BuildRenewalReminder(&companies[i], windowDays, now); r != nil {
			reminders = append(reminders, *r)
		}
	}
	return reminders, nil
}

// errNoChange signals that a mutate callback left the entity untouched; the
// entity is returned as-is without a write.
var errNoChange = errors.New("no change")

// mutate loads the company under a row lock inside a transaction, applies fn
// and persists the result.
func (s *service) mutate(ctx context.Context, id string, fn func(c *Company) error) (CompanyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("company mutate begin tx failed", zap.Error(err))
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}

	if err := fn(c); err != nil {
		if errors.Is(err, errNoChange) {
			return mapToResponse(*c, true), nil
		}
		return CompanyResponse{}, err
	}

	if err := qtx.Update(ctx, c); err != nil {
		s.logger.Error("company mutate persist failed", zap.String("company_id", id), zap.Error(err))
		return CompanyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("company mutate commit failed", zap.String("company_id", id), zap.Error(err))
		return CompanyResponse{}, err
	}

	return mapToResponse(*c, true), nil
}

func appendActivity(c *Company, action, description, actorID string) {
	c.ActivityLog = append(c.ActivityLog, ActivityEntry{
		Action:      action,
		Description: description,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, companyerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(c Company, includeLogs bool) CompanyResponse {
	resp := CompanyResponse{
		ID:                c.ID.String(),
		Name:              c.Name,
		Number:            c.Number,
		Country:           c.Country,
		LegalType:         c.LegalType,
		IncorporationDate: c.IncorporationDate.Format("2006-01-02"),
		PurchasePrice:     c.PurchasePrice,
		RenewalFee:        c.RenewalFee,
		Currency:          c.Currency,
		RenewalDate:       c.RenewalDate.Format("2006-01-02"),
		RenewalDaysLeft:   CalculateRenewalDaysLeft(c.RenewalDate, time.Now().UTC()),
		Status:            c.Status,
		PaymentStatus:     c.PaymentStatus,
		RefundStatus:      c.RefundStatus,
		Tags:              c.Tags,
	}
	if c.OwnerID != nil {
		v := c.OwnerID.String()
		resp.OwnerID = &v
	}
	if includeLogs {
		resp.ActivityLog = c.ActivityLog
		resp.OwnershipHistory = c.OwnershipHistory
	}
	return resp
}

func mapToListResponse(companies []Company, includeLogs bool) []CompanyResponse {
	resp := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		resp[i] = mapToResponse(c, includeLogs)
	}
	return resp
}
