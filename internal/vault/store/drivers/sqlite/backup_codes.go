package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
)

type backupCodesRepo struct {
	db DBTX
}

// ReplaceBackupCodes is not atomic on its own; run it inside a Tx.
func (r *backupCodesRepo) ReplaceBackupCodes(ctx context.Context, accountID string, codes []string, at time.Time) error {
	if err := r.DeleteAllBackupCodes(ctx, accountID); err != nil {
		return err
	}

	for i, code := range codes {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO backup_codes (account_id, position, code, used, used_at, created_at)
			VALUES (?, ?, ?, 0, NULL, ?)`,
			accountID, i, code, at.UTC())
		if err != nil {
			return fmt.Errorf("insert backup code %d: %w", i, mapConstraint(err))
		}
	}
	return nil
}

func (r *backupCodesRepo) ListBackupCodes(ctx context.Context, accountID string) ([]domain.BackupCode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT account_id, code, used, used_at, created_at
		FROM backup_codes
		WHERE account_id = ?
		ORDER BY position`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BackupCode
	for rows.Next() {
		var (
			c      domain.BackupCode
			usedAt sql.NullTime
		)
		if err := rows.Scan(&c.AccountID, &c.Code, &c.Used, &usedAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.UsedAt = mapNullTimePtr(usedAt)
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

// ConsumeBackupCode flips a single unused row in one statement, so two
// concurrent consumers of the same code cannot both succeed.
func (r *backupCodesRepo) ConsumeBackupCode(ctx context.Context, accountID, code string, at time.Time) error {
	return requireOneRow(r.db.ExecContext(ctx, `
		UPDATE backup_codes
		SET used = 1, used_at = ?
		WHERE rowid = (
			SELECT rowid FROM backup_codes
			WHERE account_id = ? AND code = ? AND used = 0
			ORDER BY position
			LIMIT 1
		)`,
		at.UTC(), accountID, code))
}

func (r *backupCodesRepo) DeleteAllBackupCodes(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM backup_codes WHERE account_id = ?`, accountID)
	return err
}
