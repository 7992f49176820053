package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerFields datos de una entrada del ledger. Reference vacío se guarda como NULL
// y PerformedBy vacío como entity.DefaultPerformer.
type LedgerFields struct {
	ProductID   string
	FromBinID   string
	ToBinID     string
	Qty         decimal.Decimal
	Reference   string
	PerformedBy string
}

// QuantityRepository acceso a cantidades y ledger ligado a UNA transacción abierta.
// Todas las operaciones corren sobre la misma conexión; el commit lo decide el servicio.
type QuantityRepository interface {
	// GetQuantity devuelve la cantidad actual; sin fila devuelve cero.
	GetQuantity(ctx context.Context, productID, binID string) (decimal.Decimal, error)
	// GetQuantityForUpdate igual que GetQuantity pero bloquea la fila (SELECT FOR UPDATE)
	// hasta el fin de la transacción.
	GetQuantityForUpdate(ctx context.Context, productID, binID string) (decimal.Decimal, error)
	// AdjustQuantity suma delta. Delta >= 0 crea la fila si no existe;
	// delta < 0 exige que la fila exista.
	AdjustQuantity(ctx context.Context, productID, binID string, delta decimal.Decimal) error
	InsertLedgerIn(ctx context.Context, f LedgerFields) error
	InsertLedgerOut(ctx context.Context, f LedgerFields) error
	InsertLedgerMove(ctx context.Context, f LedgerFields) error
}
