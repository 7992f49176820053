package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Tx unidad de trabajo abierta sobre una conexión dedicada.
// Quantities devuelve el repositorio atado a esa conexión.
type Tx interface {
	Quantities() repository.QuantityRepository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner abre transacciones para el motor de movimientos.
type TxBeginner interface {
	Begin(ctx context.Context) (Tx, error)
}
