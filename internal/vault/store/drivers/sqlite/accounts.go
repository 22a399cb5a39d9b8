package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
)

type accountsRepo struct {
	db DBTX
}

const accountColumns = `id, name, email, password_hash, role,
	authenticator_secret, authenticator_enabled_at, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a         domain.Account
		secret    sql.NullString
		enabledAt sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role,
		&secret, &enabledAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.Authenticator, err = domain.AuthenticatorFromColumns(mapNullStringPtr(secret), mapNullTimePtr(enabledAt))
	if err != nil {
		return domain.Account{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	if a.Authenticator == nil {
		a.Authenticator = domain.Disabled{}
	}
	secret, enabledAt := domain.AuthenticatorColumns(a.Authenticator)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Role,
		mapOptionalString(secret), mapOptionalTime(enabledAt),
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error {
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, at.UTC(), id))
}

func (r *accountsRepo) UpdateName(ctx context.Context, id, name string, at time.Time) error {
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, updated_at = ? WHERE id = ?`,
		name, at.UTC(), id))
}

func (r *accountsRepo) SetPendingAuthenticator(ctx context.Context, id, secret string, at time.Time) error {
	return requireOneRow(r.db.ExecContext(ctx, `
		UPDATE accounts
		SET authenticator_secret = ?, updated_at = ?
		WHERE id = ? AND authenticator_enabled_at IS NULL`,
		secret, at.UTC(), id))
}

func (r *accountsRepo) EnableAuthenticator(ctx context.Context, id, secret string, at time.Time) error {
	return requireOneRow(r.db.ExecContext(ctx, `
		UPDATE accounts
		SET authenticator_enabled_at = ?, updated_at = ?
		WHERE id = ? AND authenticator_secret = ? AND authenticator_enabled_at IS NULL`,
		at.UTC(), at.UTC(), id, secret))
}

func (r *accountsRepo) DisableAuthenticator(ctx context.Context, id string, at time.Time) error {
	return requireOneRow(r.db.ExecContext(ctx, `
		UPDATE accounts
		SET authenticator_secret = NULL, authenticator_enabled_at = NULL, updated_at = ?
		WHERE id = ?`,
		at.UTC(), id))
}
