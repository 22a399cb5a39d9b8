package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
)

type activityRepo struct {
	db DBTX
}

func (r *activityRepo) CreateActivity(ctx context.Context, e domain.ActivityEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, account_id, action, description, ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, string(e.Action), e.Description, e.IP, e.UserAgent, e.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *activityRepo) ListRecentActivity(ctx context.Context, accountID string, limit int) ([]domain.ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, action, description, ip, user_agent, created_at
		FROM activity_log
		WHERE account_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityEntry
	for rows.Next() {
		var (
			e      domain.ActivityEntry
			action string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &action, &e.Description, &e.IP, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = domain.ActivityAction(action)
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *activityRepo) DeleteActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_log WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
