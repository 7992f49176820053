package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxBeginner.
var _ inventory.TxBeginner = (*TxRunner)(nil)

// TxRunner abre transacciones PostgreSQL (READ COMMITTED) sobre el pool.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Begin toma una conexión dedicada del pool y abre la transacción.
// La conexión vuelve al pool con Commit o Rollback.
func (r *TxRunner) Begin(ctx context.Context) (inventory.Tx, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx, quantities: NewQuantityRepository(tx)}, nil
}

// runInTx ejecuta fn dentro de una transacción y hace Commit o Rollback.
// Lo usan los repositorios de catálogo para operaciones de varias sentencias.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(q Querier) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	tx         pgx.Tx
	quantities *QuantityRepo
}

func (t *pgTx) Quantities() repository.QuantityRepository { return t.quantities }

func (t *pgTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback tras un Commit (exitoso o no) es no-op.
func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
