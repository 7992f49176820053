package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// IdempotencyRepository almacén durable de respuestas idempotentes.
type IdempotencyRepository interface {
	// FindSince devuelve el registro creado después de since, o nil si no hay.
	FindSince(ctx context.Context, key string, since time.Time) (*entity.IdempotencyRecord, error)
	// Save inserta el registro; si la clave ya existe no hace nada (gana el primero).
	Save(ctx context.Context, rec *entity.IdempotencyRecord) error
	// DeleteOlderThan elimina registros anteriores a before y devuelve cuántos.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
