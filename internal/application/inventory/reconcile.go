package inventory

import (
	"context"

	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ReconcileUseCase compara la proyección del ledger con stock_levels.
type ReconcileUseCase struct {
	ledger repository.LedgerRepository
	stock  repository.StockRepository
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(ledger repository.LedgerRepository, stock repository.StockRepository) *ReconcileUseCase {
	return &ReconcileUseCase{ledger: ledger, stock: stock}
}

// Mismatches devuelve las filas donde ledger y stock no coinciden. Vacío = consistente.
// Stock cargado fuera del ledger (p.ej. datos previos) aparece como diferencia.
func (uc *ReconcileUseCase) Mismatches(ctx context.Context) ([]domaininv.Mismatch, error) {
	entries, err := uc.ledger.All(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := uc.stock.Levels(ctx)
	if err != nil {
		return nil, err
	}
	return domaininv.Compare(domaininv.ReplayLedger(entries), levels), nil
}
