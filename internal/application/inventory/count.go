package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// CountCommand lleva un bin a una cantidad contada (conteo físico / reconcile CSV).
// La diferencia se registra como IN u OUT, así el ledger sigue explicando el stock.
type CountCommand struct {
	in MovementInput // Qty es la cantidad objetivo
}

// NewCountCommand usa ProductID, BinID, Qty (objetivo), Reference y User.
func NewCountCommand(in MovementInput) *CountCommand {
	return &CountCommand{in: in.canonical()}
}

// Kind COUNT solo etiqueta métricas y trazas; el ledger recibe IN u OUT.
func (c *CountCommand) Kind() string { return "COUNT" }

func (c *CountCommand) Validate() error {
	if c.in.ProductID == "" || c.in.BinID == "" || c.in.Qty.IsNegative() {
		return &domain.ValidationError{Message: "productId, binId, non-negative qty required"}
	}
	return checkQtyLimits(c.in.Qty)
}

func (c *CountCommand) Execute(ctx context.Context, repo repository.QuantityRepository) (Result, error) {
	current, err := repo.GetQuantityForUpdate(ctx, c.in.ProductID, c.in.BinID)
	if err != nil {
		return Result{}, err
	}
	delta := c.in.Qty.Sub(current)
	if delta.IsZero() {
		return Result{OK: true}, nil
	}
	if err := repo.AdjustQuantity(ctx, c.in.ProductID, c.in.BinID, delta); err != nil {
		return Result{}, err
	}
	if delta.IsPositive() {
		f := c.in.ledger("", c.in.BinID)
		f.Qty = delta
		err = repo.InsertLedgerIn(ctx, f)
	} else {
		f := c.in.ledger(c.in.BinID, "")
		f.Qty = delta.Neg()
		err = repo.InsertLedgerOut(ctx, f)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{OK: true}, nil
}
