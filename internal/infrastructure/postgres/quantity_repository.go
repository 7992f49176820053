package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.QuantityRepository = (*QuantityRepo)(nil)

// QuantityRepo cantidades y ledger sobre la conexión de una transacción abierta.
type QuantityRepo struct {
	q Querier
}

// NewQuantityRepository construye el repositorio sobre q (normalmente pgx.Tx).
func NewQuantityRepository(q Querier) *QuantityRepo {
	return &QuantityRepo{q: q}
}

func (r *QuantityRepo) GetQuantity(ctx context.Context, productID, binID string) (decimal.Decimal, error) {
	return r.get(ctx, `SELECT qty FROM stock_levels WHERE product_id = $1 AND bin_id = $2`, productID, binID)
}

// GetQuantityForUpdate bloquea la fila hasta el commit/rollback. Sin fila no hay nada que
// bloquear y devuelve cero; una fila creada en paralelo solo puede sumar.
func (r *QuantityRepo) GetQuantityForUpdate(ctx context.Context, productID, binID string) (decimal.Decimal, error) {
	return r.get(ctx, `SELECT qty FROM stock_levels WHERE product_id = $1 AND bin_id = $2 FOR UPDATE`, productID, binID)
}

func (r *QuantityRepo) get(ctx context.Context, query, productID, binID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.q.QueryRow(ctx, query, productID, binID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, mapRefErr("get quantity", err)
	}
	return qty, nil
}

// AdjustQuantity delta >= 0: upsert sumando; delta < 0: update que exige fila existente.
// El CHECK (qty >= 0) de la tabla es la última barrera contra negativos.
func (r *QuantityRepo) AdjustQuantity(ctx context.Context, productID, binID string, delta decimal.Decimal) error {
	if !delta.IsNegative() {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_levels (product_id, bin_id, qty, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (product_id, bin_id)
			DO UPDATE SET qty = stock_levels.qty + EXCLUDED.qty, updated_at = now()`,
			productID, binID, delta)
		if err != nil {
			return mapRefErr("upsert quantity", err)
		}
		return nil
	}

	tag, err := r.q.Exec(ctx, `
		UPDATE stock_levels SET qty = qty + $3, updated_at = now()
		WHERE product_id = $1 AND bin_id = $2`,
		productID, binID, delta)
	if err != nil {
		return mapRefErr("update quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update quantity: no stock row for product %s bin %s", productID, binID)
	}
	return nil
}

func (r *QuantityRepo) InsertLedgerIn(ctx context.Context, f repository.LedgerFields) error {
	return r.insertLedger(ctx, entity.TransactionIN, f.ProductID, "", f.ToBinID, f)
}

func (r *QuantityRepo) InsertLedgerOut(ctx context.Context, f repository.LedgerFields) error {
	return r.insertLedger(ctx, entity.TransactionOUT, f.ProductID, f.FromBinID, "", f)
}

func (r *QuantityRepo) InsertLedgerMove(ctx context.Context, f repository.LedgerFields) error {
	return r.insertLedger(ctx, entity.TransactionMOVE, f.ProductID, f.FromBinID, f.ToBinID, f)
}

func (r *QuantityRepo) insertLedger(ctx context.Context, kind, productID, fromBin, toBin string, f repository.LedgerFields) error {
	performer := f.PerformedBy
	if performer == "" {
		performer = entity.DefaultPerformer
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_transactions (id, type, product_id, from_bin_id, to_bin_id, qty, reference, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New().String(), kind, productID, nullIfEmpty(fromBin), nullIfEmpty(toBin), f.Qty, nullIfEmpty(f.Reference), performer)
	if err != nil {
		return mapRefErr("insert ledger "+kind, err)
	}
	return nil
}

// mapRefErr ids mal formados o inexistentes son error del cliente, no de almacenamiento.
func mapRefErr(op string, err error) error {
	if isInvalidUUID(err) || isForeignKeyViolation(err) {
		return &domain.ValidationError{Message: "unknown productId or binId"}
	}
	return fmt.Errorf("%s: %w", op, err)
}
