package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entrada del ledger.
const (
	TransactionIN   = "IN"
	TransactionOUT  = "OUT"
	TransactionMOVE = "MOVE"
)

// DefaultPerformer autor registrado cuando el movimiento no indica usuario.
const DefaultPerformer = "api"

// StockTransaction entrada inmutable del ledger (append-only).
// IN usa ToBinID, OUT usa FromBinID, MOVE usa ambos. Qty siempre positiva.
type StockTransaction struct {
	ID          string
	Type        string
	ProductID   string
	FromBinID   string
	ToBinID     string
	Qty         decimal.Decimal
	Reference   string
	PerformedBy string
	OccurredAt  time.Time
}

// TransactionHistoryItem entrada del ledger con códigos de bin y nombres de ubicación resueltos.
type TransactionHistoryItem struct {
	StockTransaction
	FromBinCode      string
	FromLocationName string
	ToBinCode        string
	ToLocationName   string
}
