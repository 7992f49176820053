package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Key identifica una fila de stock (producto en bin).
type Key struct {
	ProductID string
	BinID     string
}

// ReplayLedger proyecta el ledger a cantidades por (producto, bin).
// IN suma en ToBinID, OUT resta en FromBinID, MOVE hace ambas.
// Tipos desconocidos se ignoran.
func ReplayLedger(entries []*entity.StockTransaction) map[Key]decimal.Decimal {
	out := make(map[Key]decimal.Decimal)
	add := func(productID, binID string, d decimal.Decimal) {
		k := Key{ProductID: productID, BinID: binID}
		out[k] = out[k].Add(d)
	}
	for _, e := range entries {
		switch e.Type {
		case entity.TransactionIN:
			add(e.ProductID, e.ToBinID, e.Qty)
		case entity.TransactionOUT:
			add(e.ProductID, e.FromBinID, e.Qty.Neg())
		case entity.TransactionMOVE:
			add(e.ProductID, e.FromBinID, e.Qty.Neg())
			add(e.ProductID, e.ToBinID, e.Qty)
		}
	}
	return out
}

// Mismatch diferencia entre la proyección del ledger y stock_levels.
type Mismatch struct {
	ProductID string
	BinID     string
	LedgerQty decimal.Decimal
	StockQty  decimal.Decimal
}

// Compare devuelve las claves donde ledger y stock difieren, ordenadas por producto y bin.
// Una clave ausente en cualquiera de los lados cuenta como cero.
func Compare(ledger map[Key]decimal.Decimal, levels []*entity.StockLevel) []Mismatch {
	stock := make(map[Key]decimal.Decimal, len(levels))
	for _, l := range levels {
		stock[Key{ProductID: l.ProductID, BinID: l.BinID}] = l.Qty
	}

	keys := make(map[Key]struct{}, len(ledger)+len(stock))
	for k := range ledger {
		keys[k] = struct{}{}
	}
	for k := range stock {
		keys[k] = struct{}{}
	}

	var out []Mismatch
	for k := range keys {
		lq, sq := ledger[k], stock[k]
		if !lq.Equal(sq) {
			out = append(out, Mismatch{ProductID: k.ProductID, BinID: k.BinID, LedgerQty: lq, StockQty: sq})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].BinID < out[j].BinID
	})
	return out
}
