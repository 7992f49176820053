package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo auditoría en activity_logs.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el repositorio.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	details := l.Details
	if len(details) == 0 {
		details = []byte("{}")
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO activity_logs (id, action_type, user_name, user_role, details)
		VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.ActionType, l.UserName, l.UserRole, string(details))
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *ActivityLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, action_type, user_name, user_role, details::text, timestamp
		FROM activity_logs
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.ActivityLog, error) {
		var (
			l       entity.ActivityLog
			details string
		)
		if err := row.Scan(&l.ID, &l.ActionType, &l.UserName, &l.UserRole, &details, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		l.Details = []byte(details)
		return &l, nil
	})
}
