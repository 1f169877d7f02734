package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// withTx returns a context carrying the transaction handle
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// txFromContext returns the transaction handle from the context, or nil
func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// conn returns the transaction from the context when one is open, else the
// base connection. Repositories route all queries through this so that work
// started inside TxManager.Do commits or rolls back as one unit.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// TxManager runs functions inside a database transaction. The transaction
// handle travels in the context; repositories pick it up transparently.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new TxManager
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Do executes fn inside a transaction. A returned error rolls everything
// back; a nil return commits.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
