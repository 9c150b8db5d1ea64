package repository

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// TransactionManager manages database transactions via context injection.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// BeginHook runs as the first statement of every transaction.
type BeginHook func(ctx context.Context, tx *gorm.DB) error

type transactionManager struct {
	db    *gorm.DB
	begin BeginHook
}

// NewSessionTransactionManager binds per-request session state (e.g. claims
// read by row-level security policies) at the start of each transaction.
func NewSessionTransactionManager(db *gorm.DB, begin BeginHook) TransactionManager {
	return &transactionManager{db: db, begin: begin}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	// Already inside a transaction: join it.
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.begin != nil {
			if err := t.begin(ctx, tx); err != nil {
				return err
			}
		}
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
