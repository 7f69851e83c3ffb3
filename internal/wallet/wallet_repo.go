package wallet

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=wallet_repo.go -destination=mock/wallet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, w *Wallet) error
	FindByUserID(ctx context.Context, userID string) (*Wallet, error)
	FindByUserIDForUpdate(ctx context.Context, userID string) (*Wallet, error)
	FindAll(ctx context.Context) ([]Wallet, error)
	Update(ctx context.Context, w *Wallet) error
	CreateTransaction(ctx context.Context, t *Transaction) error
	FindTransactions(ctx context.Context, walletID string) ([]Transaction, error)
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

func (r *repository) Create(ctx context.Context, w *Wallet) error {
	return r.conn(ctx).Create(w).Error
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Wallet, error) {
	var w Wallet
	err := r.conn(ctx).First(&w, "user_id = ?", userID).Error
	return &w, err
}

func (r *repository) FindByUserIDForUpdate(ctx context.Context, userID string) (*Wallet, error) {
	var w Wallet
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&w, "user_id = ?", userID).Error
	return &w, err
}

func (r *repository) FindAll(ctx context.Context) ([]Wallet, error) {
	var wallets []Wallet
	err := r.conn(ctx).Order("created_at DESC").Find(&wallets).Error
	return wallets, err
}

func (r *repository) Update(ctx context.Context, w *Wallet) error {
	return r.conn(ctx).Save(w).Error
}

func (r *repository) CreateTransaction(ctx context.Context, t *Transaction) error {
	return r.conn(ctx).Create(t).Error
}

func (r *repository) FindTransactions(ctx context.Context, walletID string) ([]Transaction, error) {
	var txs []Transaction
	err := r.conn(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}
