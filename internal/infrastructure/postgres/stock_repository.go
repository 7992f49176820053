package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockViewSelect = `
	SELECT sl.product_id, p.sku, p.name, l.id, l.name, sl.bin_id, b.code, sl.qty, sl.updated_at
	FROM stock_levels sl
	JOIN products p ON p.id = sl.product_id
	JOIN bins b ON b.id = sl.bin_id
	JOIN locations l ON l.id = b.location_id`

// StockRepo consultas de stock fuera del motor de movimientos.
type StockRepo struct {
	pool *pgxpool.Pool
}

// NewStockRepository construye el repositorio.
func NewStockRepository(pool *pgxpool.Pool) *StockRepo {
	return &StockRepo{pool: pool}
}

func scanStockView(row pgx.Row) (*entity.StockView, error) {
	var v entity.StockView
	err := row.Scan(&v.ProductID, &v.SKU, &v.ProductName, &v.LocationID, &v.LocationName, &v.BinID, &v.BinCode, &v.Qty, &v.UpdatedAt)
	return &v, err
}

func (r *StockRepo) List(ctx context.Context) ([]*entity.StockView, error) {
	rows, err := r.pool.Query(ctx, stockViewSelect+` ORDER BY l.name, b.code, p.name`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockView, error) {
		return scanStockView(row)
	})
}

func (r *StockRepo) Levels(ctx context.Context) ([]*entity.StockLevel, error) {
	rows, err := r.pool.Query(ctx, `SELECT product_id, bin_id, qty, updated_at FROM stock_levels`)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockLevel, error) {
		var l entity.StockLevel
		err := row.Scan(&l.ProductID, &l.BinID, &l.Qty, &l.UpdatedAt)
		return &l, err
	})
}

// Delete limpieza administrativa: borra la fila sin pasar por el ledger.
func (r *StockRepo) Delete(ctx context.Context, productID, binID string) (*entity.StockView, error) {
	var deleted *entity.StockView
	err := runInTx(ctx, r.pool, func(q Querier) error {
		v, err := scanStockView(q.QueryRow(ctx, stockViewSelect+` WHERE sl.product_id = $1 AND sl.bin_id = $2 FOR UPDATE OF sl`, productID, binID))
		if errors.Is(err, pgx.ErrNoRows) || (err != nil && isInvalidUUID(err)) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get stock row: %w", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM stock_levels WHERE product_id = $1 AND bin_id = $2`, productID, binID); err != nil {
			return fmt.Errorf("delete stock row: %w", err)
		}
		deleted = v
		return nil
	})
	return deleted, err
}

// LowStock filas con qty < COALESCE(min_qty, threshold), de menor a mayor cantidad.
func (r *StockRepo) LowStock(ctx context.Context, threshold int) ([]*entity.LowStockItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.sku, p.name, p.description, l.name, b.code, sl.qty,
		       COALESCE(p.min_qty, $1::numeric), p.lead_time_days
		FROM stock_levels sl
		JOIN products p ON p.id = sl.product_id
		JOIN bins b ON b.id = sl.bin_id
		JOIN locations l ON l.id = b.location_id
		WHERE sl.qty < COALESCE(p.min_qty, $1::numeric)
		ORDER BY sl.qty ASC, p.sku ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.LowStockItem, error) {
		var it entity.LowStockItem
		err := row.Scan(&it.SKU, &it.ProductName, &it.Description, &it.LocationName, &it.BinCode, &it.Qty, &it.MinQty, &it.LeadTimeDays)
		return &it, err
	})
}
