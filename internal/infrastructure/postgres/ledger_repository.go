package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo lectura de stock_transactions.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository construye el repositorio.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// ListByProduct historial del producto, más reciente primero, con bins y ubicaciones resueltos.
func (r *LedgerRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.TransactionHistoryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.type, t.product_id,
		       COALESCE(t.from_bin_id::text, ''), COALESCE(t.to_bin_id::text, ''),
		       t.qty, COALESCE(t.reference, ''), t.performed_by, t.occurred_at,
		       COALESCE(fb.code, ''), COALESCE(fl.name, ''),
		       COALESCE(tb.code, ''), COALESCE(tl.name, '')
		FROM stock_transactions t
		LEFT JOIN bins fb ON fb.id = t.from_bin_id
		LEFT JOIN locations fl ON fl.id = fb.location_id
		LEFT JOIN bins tb ON tb.id = t.to_bin_id
		LEFT JOIN locations tl ON tl.id = tb.location_id
		WHERE t.product_id = $1
		ORDER BY t.occurred_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("product history: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.TransactionHistoryItem, error) {
		var it entity.TransactionHistoryItem
		err := row.Scan(&it.ID, &it.Type, &it.ProductID, &it.FromBinID, &it.ToBinID,
			&it.Qty, &it.Reference, &it.PerformedBy, &it.OccurredAt,
			&it.FromBinCode, &it.FromLocationName, &it.ToBinCode, &it.ToLocationName)
		return &it, err
	})
	if err != nil {
		if isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("product history: %w", err)
	}
	return items, nil
}

// All ledger completo en orden cronológico.
func (r *LedgerRepo) All(ctx context.Context) ([]*entity.StockTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, product_id,
		       COALESCE(from_bin_id::text, ''), COALESCE(to_bin_id::text, ''),
		       qty, COALESCE(reference, ''), performed_by, occurred_at
		FROM stock_transactions
		ORDER BY occurred_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockTransaction, error) {
		var t entity.StockTransaction
		err := row.Scan(&t.ID, &t.Type, &t.ProductID, &t.FromBinID, &t.ToBinID, &t.Qty, &t.Reference, &t.PerformedBy, &t.OccurredAt)
		return &t, err
	})
}
