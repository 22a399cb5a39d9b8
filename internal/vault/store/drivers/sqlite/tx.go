package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/vault/internal/vault/store"
)

// txStore runs every repository against one transaction.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

// Ping is a no-op; the transaction already holds a live connection.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

// Tx and WithTx refuse to nest.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Accounts() store.Accounts             { return &accountsRepo{db: t.tx} }
func (t *txStore) BackupCodes() store.BackupCodes       { return &backupCodesRepo{db: t.tx} }
func (t *txStore) Activity() store.Activity             { return &activityRepo{db: t.tx} }
func (t *txStore) PasswordResets() store.PasswordResets { return &passwordResetsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
