package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ActivityLogRepository persistencia del log de auditoría.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error)
}
