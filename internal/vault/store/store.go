package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and hand
// out sub-repositories. A Tx exposes the same repositories but refuses to
// open a nested transaction.
type Store interface {
	Accounts() Accounts
	BackupCodes() BackupCodes
	Activity() Activity
	PasswordResets() PasswordResets

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account. Returns ErrAlreadyExists when the
	// email is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail expects an already normalised email.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// UpdatePasswordHash sets the argon2 hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error

	UpdateName(ctx context.Context, id, name string, at time.Time) error

	// SetPendingAuthenticator stores a fresh secret, leaving the account in
	// the Pending state. Returns ErrNotFound if the account is missing or
	// already Enabled.
	SetPendingAuthenticator(ctx context.Context, id, secret string, at time.Time) error

	// EnableAuthenticator promotes a Pending account to Enabled. It only
	// succeeds if the stored secret still equals secret, so a concurrent
	// re-enable wins. Returns ErrNotFound otherwise.
	EnableAuthenticator(ctx context.Context, id, secret string, at time.Time) error

	// DisableAuthenticator clears the secret and enabled_at.
	DisableAuthenticator(ctx context.Context, id string, at time.Time) error
}

type BackupCodes interface {
	// ReplaceBackupCodes deletes the account's codes and inserts codes in
	// the given order.
	ReplaceBackupCodes(ctx context.Context, accountID string, codes []string, at time.Time) error

	// ListBackupCodes returns used and unused codes in issue order.
	ListBackupCodes(ctx context.Context, accountID string) ([]domain.BackupCode, error)

	// ConsumeBackupCode marks a matching unused code as used. Returns
	// ErrNotFound when no unused code matches, whatever the reason.
	ConsumeBackupCode(ctx context.Context, accountID, code string, at time.Time) error

	DeleteAllBackupCodes(ctx context.Context, accountID string) error
}

type Activity interface {
	CreateActivity(ctx context.Context, e domain.ActivityEntry) error

	// ListRecentActivity returns at most limit entries, newest first.
	ListRecentActivity(ctx context.Context, accountID string, limit int) ([]domain.ActivityEntry, error)

	// DeleteActivityBefore is housekeeping; it returns the number of rows removed.
	DeleteActivityBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PasswordResets interface {
	// UpsertPasswordReset replaces any pending reset for the account.
	UpsertPasswordReset(ctx context.Context, r domain.PasswordReset) error

	GetPasswordReset(ctx context.Context, accountID string) (domain.PasswordReset, error)

	// DeletePasswordReset is a no-op when nothing is pending.
	DeletePasswordReset(ctx context.Context, accountID string) error

	// DeleteExpiredPasswordResets is housekeeping; it returns the number of rows removed.
	DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error)
}
