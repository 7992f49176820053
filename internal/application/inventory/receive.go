package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ReceiveCommand entrada de mercancía a un bin.
type ReceiveCommand struct {
	in MovementInput
}

// NewReceiveCommand usa ProductID, BinID, Qty, Reference y User.
func NewReceiveCommand(in MovementInput) *ReceiveCommand {
	return &ReceiveCommand{in: in.canonical()}
}

func (c *ReceiveCommand) Kind() string { return entity.TransactionIN }

func (c *ReceiveCommand) Validate() error {
	if c.in.ProductID == "" || c.in.BinID == "" || !c.in.Qty.IsPositive() {
		return &domain.ValidationError{Message: "productId, binId, positive qty required"}
	}
	return checkQtyLimits(c.in.Qty)
}

// Execute suma qty al bin (creando la fila si no existe) y registra un IN.
// No lee la cantidad previa: sumar nunca viola el invariante de no negatividad.
func (c *ReceiveCommand) Execute(ctx context.Context, repo repository.QuantityRepository) (Result, error) {
	if err := repo.AdjustQuantity(ctx, c.in.ProductID, c.in.BinID, c.in.Qty); err != nil {
		return Result{}, err
	}
	if err := repo.InsertLedgerIn(ctx, c.in.ledger("", c.in.BinID)); err != nil {
		return Result{}, err
	}
	return Result{OK: true}, nil
}
