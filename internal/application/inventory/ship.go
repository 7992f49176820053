package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ShipCommand salida de mercancía desde un bin.
type ShipCommand struct {
	in MovementInput
}

// NewShipCommand usa ProductID, BinID, Qty, Reference y User.
func NewShipCommand(in MovementInput) *ShipCommand {
	return &ShipCommand{in: in.canonical()}
}

func (c *ShipCommand) Kind() string { return entity.TransactionOUT }

func (c *ShipCommand) Validate() error {
	if c.in.ProductID == "" || c.in.BinID == "" || !c.in.Qty.IsPositive() {
		return &domain.ValidationError{Message: "productId, binId, positive qty required"}
	}
	return checkQtyLimits(c.in.Qty)
}

// Execute bloquea la fila, verifica disponibilidad, resta y registra un OUT.
func (c *ShipCommand) Execute(ctx context.Context, repo repository.QuantityRepository) (Result, error) {
	available, err := repo.GetQuantityForUpdate(ctx, c.in.ProductID, c.in.BinID)
	if err != nil {
		return Result{}, err
	}
	if available.LessThan(c.in.Qty) {
		return Result{}, &domain.InsufficientStockError{Available: available}
	}
	if err := repo.AdjustQuantity(ctx, c.in.ProductID, c.in.BinID, c.in.Qty.Neg()); err != nil {
		return Result{}, err
	}
	if err := repo.InsertLedgerOut(ctx, c.in.ledger(c.in.BinID, "")); err != nil {
		return Result{}, err
	}
	return Result{OK: true}, nil
}
