package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
)

type passwordResetsRepo struct {
	db DBTX
}

func (r *passwordResetsRepo) UpsertPasswordReset(ctx context.Context, p domain.PasswordReset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_resets (account_id, otp_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			otp_hash = excluded.otp_hash,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`,
		p.AccountID, p.OTPHash, p.ExpiresAt.UTC(), p.CreatedAt.UTC())
	return err
}

func (r *passwordResetsRepo) GetPasswordReset(ctx context.Context, accountID string) (domain.PasswordReset, error) {
	var p domain.PasswordReset
	err := r.db.QueryRowContext(ctx, `
		SELECT account_id, otp_hash, expires_at, created_at
		FROM password_resets
		WHERE account_id = ?`, accountID,
	).Scan(&p.AccountID, &p.OTPHash, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	p.ExpiresAt = p.ExpiresAt.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func (r *passwordResetsRepo) DeletePasswordReset(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE account_id = ?`, accountID)
	return err
}

func (r *passwordResetsRepo) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
