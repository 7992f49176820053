package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyRepo almacén durable de respuestas idempotentes (tabla idempotency_keys).
// El cuerpo se guarda como TEXT para que el replay sea byte a byte igual.
type IdempotencyRepo struct {
	q Querier
}

// NewIdempotencyRepository construye el repositorio.
func NewIdempotencyRepository(q Querier) *IdempotencyRepo {
	return &IdempotencyRepo{q: q}
}

func (r *IdempotencyRepo) FindSince(ctx context.Context, key string, since time.Time) (*entity.IdempotencyRecord, error) {
	var (
		rec  entity.IdempotencyRecord
		body string
	)
	err := r.q.QueryRow(ctx, `
		SELECT key, status_code, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND created_at > $2`, key, since).
		Scan(&rec.Key, &rec.StatusCode, &body, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find idempotency key: %w", err)
	}
	rec.Body = []byte(body)
	return &rec, nil
}

// Save primera escritura gana (ON CONFLICT DO NOTHING).
func (r *IdempotencyRepo) Save(ctx context.Context, rec *entity.IdempotencyRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO idempotency_keys (key, status_code, response_body, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING`,
		rec.Key, rec.StatusCode, string(rec.Body), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save idempotency key: %w", err)
	}
	return nil
}

func (r *IdempotencyRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge idempotency keys: %w", err)
	}
	return tag.RowsAffected(), nil
}
