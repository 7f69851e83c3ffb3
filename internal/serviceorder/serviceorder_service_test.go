package serviceorder_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shelfmarket/internal/catalog"
	"shelfmarket/internal/serviceorder"
	"shelfmarket/internal/wallet"
	walleterrors "shelfmarket/internal/wallet/errors"
)

type fakeServiceOrderRepo struct {
	createFn func(ctx context.Context, o *serviceorder.ServiceOrder) error
}

func (f *fakeServiceOrderRepo) WithTx(tx *sql.Tx) serviceorder.Repository { return f }
func (f *fakeServiceOrderRepo) Create(ctx context.Context, o *serviceorder.ServiceOrder) error {
	if f.createFn != nil {
		return f.createFn(ctx, o)
	}
	return nil
}
func (f *fakeServiceOrderRepo) FindAll(ctx context.Context, filter serviceorder.ListServiceOrdersFilterRequest) ([]serviceorder.ServiceOrder, error) {
	return nil, nil
}
func (f *fakeServiceOrderRepo) FindByID(ctx context.Context, id string) (*serviceorder.ServiceOrder, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeServiceOrderRepo) FindByIDForUpdate(ctx context.Context, id string) (*serviceorder.ServiceOrder, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeServiceOrderRepo) FindByCustomer(ctx context.Context, customerID string) ([]serviceorder.ServiceOrder, error) {
	return nil, nil
}
func (f *fakeServiceOrderRepo) Update(ctx context.Context, o *serviceorder.ServiceOrder) error {
	return nil
}

type fakeCatalogService struct {
	getByIDFn func(ctx context.Context, id string) (catalog.ServiceResponse, error)
}

func (f *fakeCatalogService) Create(ctx context.Context, req catalog.CreateServiceRequest) (catalog.ServiceResponse, error) {
	return catalog.ServiceResponse{}, nil
}
func (f *fakeCatalogService) GetAll(ctx context.Context, filter catalog.ListServicesFilterRequest) ([]catalog.ServiceResponse, error) {
	return nil, nil
}
func (f *fakeCatalogService) GetActive(ctx context.Context) ([]catalog.ServiceResponse, error) {
	return nil, nil
}
func (f *fakeCatalogService) GetByID(ctx context.Context, id string) (catalog.ServiceResponse, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return catalog.ServiceResponse{}, nil
}
func (f *fakeCatalogService) Update(ctx context.Context, id string, req catalog.UpdateServiceRequest) (catalog.ServiceResponse, error) {
	return catalog.ServiceResponse{}, nil
}
func (f *fakeCatalogService) Delete(ctx context.Context, id string) error { return nil }

type fakeWalletRepo struct {
	findByUserIDForUpdateFn func(ctx context.Context, userID string) (*wallet.Wallet, error)
	updateFn                func(ctx context.Context, w *wallet.Wallet) error
	createTransactionFn     func(ctx context.Context, t *wallet.Transaction) error
}

func (f *fakeWalletRepo) WithTx(tx *sql.Tx) wallet.Repository { return f }
func (f *fakeWalletRepo) Create(ctx context.Context, w *wallet.Wallet) error { return nil }
func (f *fakeWalletRepo) FindByUserID(ctx context.Context, userID string) (*wallet.Wallet, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeWalletRepo) FindByUserIDForUpdate(ctx context.Context, userID string) (*wallet.Wallet, error) {
	if f.findByUserIDForUpdateFn != nil {
		return f.findByUserIDForUpdateFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeWalletRepo) FindAll(ctx context.Context) ([]wallet.Wallet, error) { return nil, nil }
func (f *fakeWalletRepo) Update(ctx context.Context, w *wallet.Wallet) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, w)
	}
	return nil
}
func (f *fakeWalletRepo) CreateTransaction(ctx context.Context, t *wallet.Transaction) error {
	if f.createTransactionFn != nil {
		return f.createTransactionFn(ctx, t)
	}
	return nil
}
func (f *fakeWalletRepo) FindTransactions(ctx context.Context, walletID string) ([]wallet.Transaction, error) {
	return nil, nil
}

type fakeCounterRepo struct{ next int64 }

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func registeredAgentService() catalog.ServiceResponse {
	return catalog.ServiceResponse{
		ID:         uuid.New().String(),
		Name:       "Registered Agent",
		Price:      199,
		Currency:   "USD",
		Active:     true,
		FormFields: registeredAgentForm(),
	}
}

func completeApplication() map[string]interface{} {
	return map[string]interface{}{
		"company_name": "Acme Holdings Ltd",
		"state":        "DE",
		"years":        2.0,
	}
}

func TestServiceOrderService_Place(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New().String()

	setup := func(t *testing.T, svc catalog.ServiceResponse) (serviceorder.Service, *fakeServiceOrderRepo, *fakeWalletRepo, sqlmock.Sqlmock) {
		t.Helper()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		repo := &fakeServiceOrderRepo{}
		wallets := &fakeWalletRepo{}
		cat := &fakeCatalogService{getByIDFn: func(ctx context.Context, id string) (catalog.ServiceResponse, error) {
			return svc, nil
		}}
		return serviceorder.NewService(db, repo, cat, wallets, &fakeCounterRepo{}), repo, wallets, mock
	}

	t.Run("wallet payment debits and persists together", func(t *testing.T) {
		offering := registeredAgentService()
		svc, repo, wallets, mock := setup(t, offering)

		w := &wallet.Wallet{
			ID:      uuid.New(),
			UserID:  uuid.MustParse(customerID),
			Balance: 500,
			Status:  wallet.StatusActive,
		}
		wallets.findByUserIDForUpdateFn = func(ctx context.Context, userID string) (*wallet.Wallet, error) {
			assert.Equal(t, customerID, userID)
			return w, nil
		}
		var entry *wallet.Transaction
		wallets.createTransactionFn = func(ctx context.Context, t *wallet.Transaction) error {
			entry = t
			return nil
		}
		var created *serviceorder.ServiceOrder
		repo.createFn = func(ctx context.Context, o *serviceorder.ServiceOrder) error {
			created = o
			return nil
		}

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Place(ctx, customerID, serviceorder.PlaceServiceOrderRequest{
			ServiceID:       offering.ID,
			CustomerEmail:   "jane@mail.com",
			PaymentMethod:   serviceorder.PaymentMethodWallet,
			ApplicationData: completeApplication(),
		})

		require.NoError(t, err)
		assert.Equal(t, "SVC-000001", resp.OrderNumber)
		assert.Equal(t, "paid", resp.PaymentStatus)
		assert.Equal(t, 301.0, w.Balance)
		require.NotNil(t, entry)
		assert.Equal(t, 199.0, entry.Amount)
		require.NotNil(t, created)
		assert.Equal(t, serviceorder.StatusPending, created.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient wallet funds rolls back", func(t *testing.T) {
		offering := registeredAgentService()
		svc, repo, wallets, mock := setup(t, offering)

		w := &wallet.Wallet{
			ID:      uuid.New(),
			UserID:  uuid.MustParse(customerID),
			Balance: 50,
			Status:  wallet.StatusActive,
		}
		wallets.findByUserIDForUpdateFn = func(ctx context.Context, userID string) (*wallet.Wallet, error) {
			return w, nil
		}
		repo.createFn = func(ctx context.Context, o *serviceorder.ServiceOrder) error {
			t.Fatal("order must not be persisted when payment fails")
			return nil
		}

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Place(ctx, customerID, serviceorder.PlaceServiceOrderRequest{
			ServiceID:       offering.ID,
			CustomerEmail:   "jane@mail.com",
			PaymentMethod:   serviceorder.PaymentMethodWallet,
			ApplicationData: completeApplication(),
		})

		assert.ErrorIs(t, err, walleterrors.ErrInsufficientFunds)
		assert.Equal(t, 50.0, w.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("card payment skips the wallet", func(t *testing.T) {
		offering := registeredAgentService()
		svc, repo, wallets, mock := setup(t, offering)

		wallets.findByUserIDForUpdateFn = func(ctx context.Context, userID string) (*wallet.Wallet, error) {
			t.Fatal("card payment must not touch the wallet")
			return nil, nil
		}
		var created *serviceorder.ServiceOrder
		repo.createFn = func(ctx context.Context, o *serviceorder.ServiceOrder) error {
			created = o
			return nil
		}

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Place(ctx, customerID, serviceorder.PlaceServiceOrderRequest{
			ServiceID:       offering.ID,
			CustomerEmail:   "jane@mail.com",
			PaymentMethod:   serviceorder.PaymentMethodCard,
			ApplicationData: completeApplication(),
		})

		require.NoError(t, err)
		assert.Equal(t, "paid", resp.PaymentStatus)
		require.NotNil(t, created)
		assert.Equal(t, serviceorder.PaymentMethodCard, created.PaymentMethod)
	})
}
