package company_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"shelfmarket/internal/company"
	companyerrors "shelfmarket/internal/company/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCompanyRepo struct {
	findByIDForUpdateFn   func(ctx context.Context, id string) (*company.Company, error)
	findSweepCandidatesFn func(ctx context.Context, cutoff time.Time) ([]company.Company, error)
	updateFn              func(ctx context.Context, c *company.Company) error
}

func (f *fakeCompanyRepo) WithTx(tx *sql.Tx) company.Repository { return f }
func (f *fakeCompanyRepo) Create(ctx context.Context, c *company.Company) error { return nil }
func (f *fakeCompanyRepo) FindAll(ctx context.Context, filter company.ListCompaniesFilterRequest) ([]company.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) FindByID(ctx context.Context, id string) (*company.Company, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCompanyRepo) FindByIDForUpdate(ctx context.Context, id string) (*company.Company, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCompanyRepo) FindByStatus(ctx context.Context, status string) ([]company.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) FindSweepCandidates(ctx context.Context, cutoff time.Time) ([]company.Company, error) {
	if f.findSweepCandidatesFn != nil {
		return f.findSweepCandidatesFn(ctx, cutoff)
	}
	return nil, nil
}
func (f *fakeCompanyRepo) Update(ctx context.Context, c *company.Company) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}
func (f *fakeCompanyRepo) Delete(ctx context.Context, id string) error { return nil }

func setupCompanyService(t *testing.T, repo *fakeCompanyRepo) (company.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return company.NewService(db, repo), mock
}

func overdueCompany() *company.Company {
	return &company.Company{
		ID:          uuid.New(),
		Name:        "Sleepy Holdings Ltd",
		Number:      "12345678",
		Status:      company.StatusActive,
		RenewalDate: time.Now().UTC().AddDate(0, 0, -10),
	}
}

func TestCompanyService_AutoUpdateStatus(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("overdue company flips to expired once", func(t *testing.T) {
		c := overdueCompany()
		updates := 0
		repo := &fakeCompanyRepo{
			findByIDForUpdateFn: func(ctx context.Context, id string) (*company.Company, error) {
				return c, nil
			},
			updateFn: func(ctx context.Context, c *company.Company) error {
				updates++
				return nil
			},
		}
		svc, mock := setupCompanyService(t, repo)

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.AutoUpdateStatus(ctx, actorID, c.ID.String())
		require.NoError(t, err)
		assert.Equal(t, company.StatusExpired, resp.Status)
		assert.Equal(t, 1, updates)
		require.NotEmpty(t, c.ActivityLog)
		assert.Equal(t, "status_changed", c.ActivityLog[len(c.ActivityLog)-1].Action)

		// second pass sees the settled status and writes nothing
		mock.ExpectBegin()
		mock.ExpectRollback()

		resp, err = svc.AutoUpdateStatus(ctx, actorID, c.ID.String())
		require.NoError(t, err)
		assert.Equal(t, company.StatusExpired, resp.Status)
		assert.Equal(t, 1, updates)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown company", func(t *testing.T) {
		svc, mock := setupCompanyService(t, &fakeCompanyRepo{})

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.AutoUpdateStatus(ctx, actorID, uuid.New().String())
		assert.ErrorIs(t, err, companyerrors.ErrCompanyNotFound)
	})
}

func TestCompanyService_SweepStatuses(t *testing.T) {
	ctx := context.Background()

	t.Run("expires overdue companies and settles", func(t *testing.T) {
		overdue := *overdueCompany()
		fresh := *overdueCompany()
		fresh.RenewalDate = time.Now().UTC().AddDate(0, 6, 0)

		pool := []company.Company{overdue, fresh}
		var written []string
		repo := &fakeCompanyRepo{
			findSweepCandidatesFn: func(ctx context.Context, cutoff time.Time) ([]company.Company, error) {
				out := make([]company.Company, len(pool))
				copy(out, pool)
				return out, nil
			},
			updateFn: func(ctx context.Context, c *company.Company) error {
				written = append(written, c.ID.String())
				for i := range pool {
					if pool[i].ID == c.ID {
						pool[i] = *c
					}
				}
				return nil
			},
		}
		svc, _ := setupCompanyService(t, repo)

		changed, err := svc.SweepStatuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, changed)
		assert.Equal(t, []string{overdue.ID.String()}, written)
		assert.Equal(t, company.StatusExpired, pool[0].Status)

		// sweeping again changes nothing
		changed, err = svc.SweepStatuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, changed)
		assert.Len(t, written, 1)
	})
}

func TestCompanyService_ProcessRenewal(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	c := overdueCompany()
	c.Status = company.StatusExpired
	oldRenewal := c.RenewalDate
	repo := &fakeCompanyRepo{
		findByIDForUpdateFn: func(ctx context.Context, id string) (*company.Company, error) {
			return c, nil
		},
	}
	svc, mock := setupCompanyService(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ProcessRenewal(ctx, actorID, c.ID.String())
	require.NoError(t, err)

	assert.Equal(t, oldRenewal.AddDate(1, 0, 0), c.RenewalDate)
	assert.Equal(t, company.StatusActive, resp.Status)
	require.NotEmpty(t, c.ActivityLog)
	assert.Equal(t, "renewed", c.ActivityLog[len(c.ActivityLog)-1].Action)
}

func TestCompanyService_ProcessRefund(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("clears the owner and marks refunded", func(t *testing.T) {
		c := overdueCompany()
		c.Status = company.StatusSold
		owner := uuid.New()
		c.OwnerID = &owner
		repo := &fakeCompanyRepo{
			findByIDForUpdateFn: func(ctx context.Context, id string) (*company.Company, error) {
				return c, nil
			},
		}
		svc, mock := setupCompanyService(t, repo)

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.ProcessRefund(ctx, actorID, c.ID.String(), "buyer withdrew")
		require.NoError(t, err)
		assert.Equal(t, company.StatusRefunded, resp.Status)
		assert.Equal(t, "refunded", resp.RefundStatus)
		assert.Nil(t, c.OwnerID)
	})

	t.Run("refunding twice is rejected", func(t *testing.T) {
		c := overdueCompany()
		c.Status = company.StatusRefunded
		repo := &fakeCompanyRepo{
			findByIDForUpdateFn: func(ctx context.Context, id string) (*company.Company, error) {
				return c, nil
			},
		}
		svc, mock := setupCompanyService(t, repo)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.ProcessRefund(ctx, actorID, c.ID.String(), "again")
		assert.ErrorIs(t, err, companyerrors.ErrAlreadyRefunded)
	})
}

func TestCompanyService_Reactivate(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("expired company comes back active", func(t *testing.T) {
		c := overdueCompany()
		c.Status = company.StatusExpired
		repo := &fakeCompanyRepo{
			findByIDForUpdateFn: func(ctx context.Context, id string) (*company.Company, error) {
				return c, nil
			},
		}
		svc, mock := setupCompanyService(t, repo)

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Reactivate(ctx, actorID, c.ID.String())
		require.NoError(t, err)
		assert.Equal(t, company.StatusActive, resp.Status)
	})

	t.Run("only expired or cancelled can be reactivated", func(t *testing.T) {
		c := overdueCompany()
		c.Status = company.StatusAvailable
		repo := &fakeCompanyRepo{
			findByIDForUpdateFn: func(ctx context.Context, id string) (*company.Company, error) {
				return c, nil
			},
		}
		svc, mock := setupCompanyService(t, repo)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Reactivate(ctx, actorID, c.ID.String())
		assert.ErrorIs(t, err, companyerrors.ErrReactivateNotAllowed)
	})
}
