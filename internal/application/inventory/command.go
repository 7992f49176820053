package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Límites de NUMERIC(14,3) en stock_levels y stock_transactions.
const QtyScale = 3

var maxQty = decimal.New(1, 11)

// Result respuesta de un movimiento exitoso.
type Result struct {
	OK bool `json:"ok"`
}

// Command movimiento de stock. Validate no toca almacenamiento;
// Execute corre dentro de la transacción que abre el servicio.
type Command interface {
	// Kind tipo del ledger que produce: IN, OUT o MOVE.
	Kind() string
	Validate() error
	Execute(ctx context.Context, repo repository.QuantityRepository) (Result, error)
}

// MovementInput campos comunes a los comandos. Cada comando usa los que le aplican.
type MovementInput struct {
	ProductID string
	BinID     string
	FromBinID string
	ToBinID   string
	Qty       decimal.Decimal
	Reference string
	User      string
}

func (in MovementInput) ledger(from, to string) repository.LedgerFields {
	return repository.LedgerFields{
		ProductID:   in.ProductID,
		FromBinID:   from,
		ToBinID:     to,
		Qty:         in.Qty,
		Reference:   in.Reference,
		PerformedBy: in.User,
	}
}

// canonical recorta los ids y lleva los UUID a su forma canónica (minúsculas, con guiones),
// así dos grafías del mismo bin se comparan iguales antes de tocar almacenamiento.
func (in MovementInput) canonical() MovementInput {
	in.ProductID = canonicalID(in.ProductID)
	in.BinID = canonicalID(in.BinID)
	in.FromBinID = canonicalID(in.FromBinID)
	in.ToBinID = canonicalID(in.ToBinID)
	return in
}

func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// checkQtyLimits rechaza cantidades que la columna redondearía o no podría guardar.
func checkQtyLimits(q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QtyScale)) {
		return &domain.ValidationError{Message: "qty supports at most 3 decimal places"}
	}
	if q.Abs().GreaterThanOrEqual(maxQty) {
		return &domain.ValidationError{Message: "qty must be less than 100000000000"}
	}
	return nil
}
