package wallet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	walleterrors "shelfmarket/internal/wallet/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=wallet_service.go -destination=mock/wallet_service_mock.go -package=mock
type Service interface {
	GetOrCreate(ctx context.Context, userID string) (WalletResponse, error)
	GetByUser(ctx context.Context, userID string) (WalletResponse, error)
	GetAll(ctx context.Context) ([]WalletResponse, error)
	Deposit(ctx context.Context, userID string, amount float64) (WalletResponse, error)
	Refund(ctx context.Context, userID string, amount float64, reference, description string) (WalletResponse, error)
	Freeze(ctx context.Context, userID string) (WalletResponse, error)
	Unfreeze(ctx context.Context, userID string) (WalletResponse, error)
	Transactions(ctx context.Context, userID string) ([]TransactionResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("wallet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("wallet.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) GetOrCreate(ctx context.Context, userID string) (WalletResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return WalletResponse{}, walleterrors.ErrInvalidUserID
	}

	w, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return mapToResponse(*w), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return WalletResponse{}, err
	}

	w = &Wallet{
		ID:       uuid.New(),
		UserID:   uid,
		Balance:  0,
		Currency: "USD",
		Status:   StatusActive,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		s.logger.Error("create wallet persist failed", zap.String("user_id", userID), zap.Error(err))
		return WalletResponse{}, err
	}

	s.logger.Info("wallet created", zap.String("user_id", userID))
	return mapToResponse(*w), nil
}

func (s *service) GetByUser(ctx context.Context, userID string) (WalletResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return WalletResponse{}, walleterrors.ErrInvalidUserID
	}

	w, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WalletResponse{}, walleterrors.ErrWalletNotFound
		}
		return WalletResponse{}, err
	}
	return mapToResponse(*w), nil
}

func (s *service) GetAll(ctx context.Context) ([]WalletResponse, error) {
	wallets, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]WalletResponse, len(wallets))
	for i, w := range wallets {
		resp[i] = mapToResponse(w)
	}
	return resp, nil
}

func (s *service) Deposit(ctx context.Context, userID string, amount float64) (WalletResponse, error) {
	return s.credit(ctx, userID, TxTypeDeposit, amount, "", "wallet top-up")
}

// Refund credits a wallet as part of an order refund.
func (s *service) Refund(ctx context.Context, userID string, amount float64, reference, description string) (WalletResponse, error) {
	return s.credit(ctx, userID, TxTypeRefund, amount, reference, description)
}

func (s *service) credit(ctx context.Context, userID, txType string, amount float64, reference, description string) (WalletResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return WalletResponse{}, walleterrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("wallet credit begin tx failed", zap.Error(err))
		return WalletResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	w, err := qtx.FindByUserIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WalletResponse{}, walleterrors.ErrWalletNotFound
		}
		return WalletResponse{}, err
	}

	entry, err := ApplyCredit(w, txType, amount, reference, description)
	if err != nil {
		return WalletResponse{}, err
	}

	if err := qtx.Update(ctx, w); err != nil {
		s.logger.Error("wallet credit persist failed", zap.String("user_id", userID), zap.Error(err))
		return WalletResponse{}, err
	}
	if err := qtx.CreateTransaction(ctx, entry); err != nil {
		s.logger.Error("wallet ledger persist failed", zap.String("user_id", userID), zap.Error(err))
		return WalletResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("wallet credit commit failed", zap.String("user_id", userID), zap.Error(err))
		return WalletResponse{}, err
	}

	s.logger.Info("wallet credited",
		zap.String("user_id", userID),
		zap.String("type", txType),
		zap.Float64("amount", amount),
	)
	return mapToResponse(*w), nil
}

func (s *service) Freeze(ctx context.Context, userID string) (WalletResponse, error) {
	return s.setStatus(ctx, userID, StatusFrozen)
}

func (s *service) Unfreeze(ctx context.Context, userID string) (WalletResponse, error) {
	return s.setStatus(ctx, userID, StatusActive)
}

func (s *service) setStatus(ctx context.Context, userID, status string) (WalletResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return WalletResponse{}, walleterrors.ErrInvalidUserID
	}

	w, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WalletResponse{}, walleterrors.ErrWalletNotFound
		}
		return WalletResponse{}, err
	}

	w.Status = status
	if err := s.repo.Update(ctx, w); err != nil {
		return WalletResponse{}, err
	}

	s.logger.Info("wallet status changed", zap.String("user_id", userID), zap.String("status", status))
	return mapToResponse(*w), nil
}

func (s *service) Transactions(ctx context.Context, userID string) ([]TransactionResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, walleterrors.ErrInvalidUserID
	}

	w, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, walleterrors.ErrWalletNotFound
		}
		return nil, err
	}

	txs, err := s.repo.FindTransactions(ctx, w.ID.String())
	if err != nil {
		return nil, err
	}

	resp := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = TransactionResponse{
			ID:           t.ID.String(),
			Type:         t.Type,
			Amount:       t.Amount,
			BalanceAfter: t.BalanceAfter,
			Reference:    t.Reference,
			Description:  t.Description,
			CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func mapToResponse(w Wallet) WalletResponse {
	return WalletResponse{
		ID:       w.ID.String(),
		UserID:   w.UserID.String(),
		Balance:  w.Balance,
		Currency: w.Currency,
		Status:   w.Status,
	}
}
