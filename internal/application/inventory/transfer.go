package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TransferCommand mueve mercancía entre dos bins distintos.
type TransferCommand struct {
	in MovementInput
}

// NewTransferCommand usa ProductID, FromBinID, ToBinID, Qty, Reference y User.
func NewTransferCommand(in MovementInput) *TransferCommand {
	return &TransferCommand{in: in.canonical()}
}

func (c *TransferCommand) Kind() string { return entity.TransactionMOVE }

func (c *TransferCommand) Validate() error {
	if c.in.ProductID == "" || c.in.FromBinID == "" || c.in.ToBinID == "" ||
		c.in.FromBinID == c.in.ToBinID || !c.in.Qty.IsPositive() {
		return &domain.ValidationError{Message: "productId, fromBinId!=toBinId, positive qty required"}
	}
	return checkQtyLimits(c.in.Qty)
}

// Execute bloquea origen y destino en orden de id ascendente para que dos transferencias
// opuestas no se bloqueen mutuamente, verifica el origen, mueve y registra un MOVE.
func (c *TransferCommand) Execute(ctx context.Context, repo repository.QuantityRepository) (Result, error) {
	first, second := c.in.FromBinID, c.in.ToBinID
	if second < first {
		first, second = second, first
	}

	var available decimal.Decimal
	for _, bin := range []string{first, second} {
		q, err := repo.GetQuantityForUpdate(ctx, c.in.ProductID, bin)
		if err != nil {
			return Result{}, err
		}
		if bin == c.in.FromBinID {
			available = q
		}
	}

	if available.LessThan(c.in.Qty) {
		return Result{}, &domain.InsufficientStockError{Available: available, SourceBin: true}
	}
	if err := repo.AdjustQuantity(ctx, c.in.ProductID, c.in.FromBinID, c.in.Qty.Neg()); err != nil {
		return Result{}, err
	}
	if err := repo.AdjustQuantity(ctx, c.in.ProductID, c.in.ToBinID, c.in.Qty); err != nil {
		return Result{}, err
	}
	if err := repo.InsertLedgerMove(ctx, c.in.ledger(c.in.FromBinID, c.in.ToBinID)); err != nil {
		return Result{}, err
	}
	return Result{OK: true}, nil
}
