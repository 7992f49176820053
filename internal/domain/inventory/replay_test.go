package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReplayLedger_EscenarioCompleto(t *testing.T) {
	// receive 10 en B1, ship 3 de B1, transfer 4 de B1 a B2
	entries := []*entity.StockTransaction{
		{Type: entity.TransactionIN, ProductID: "P1", ToBinID: "B1", Qty: qty("10")},
		{Type: entity.TransactionOUT, ProductID: "P1", FromBinID: "B1", Qty: qty("3")},
		{Type: entity.TransactionMOVE, ProductID: "P1", FromBinID: "B1", ToBinID: "B2", Qty: qty("4")},
	}

	got := ReplayLedger(entries)

	assert.True(t, got[Key{"P1", "B1"}].Equal(qty("3")))
	assert.True(t, got[Key{"P1", "B2"}].Equal(qty("4")))
}

func TestReplayLedger_MoveConservaTotal(t *testing.T) {
	entries := []*entity.StockTransaction{
		{Type: entity.TransactionIN, ProductID: "P1", ToBinID: "B1", Qty: qty("7.5")},
		{Type: entity.TransactionMOVE, ProductID: "P1", FromBinID: "B1", ToBinID: "B2", Qty: qty("2.25")},
		{Type: entity.TransactionMOVE, ProductID: "P1", FromBinID: "B2", ToBinID: "B3", Qty: qty("1")},
	}

	total := decimal.Zero
	for _, v := range ReplayLedger(entries) {
		total = total.Add(v)
	}
	assert.True(t, total.Equal(qty("7.5")))
}

func TestCompare_DetectaDiferencias(t *testing.T) {
	ledger := map[Key]decimal.Decimal{
		{"P1", "B1"}: qty("3"),
		{"P1", "B2"}: qty("4"),
	}
	levels := []*entity.StockLevel{
		{ProductID: "P1", BinID: "B1", Qty: qty("3")},
		{ProductID: "P1", BinID: "B2", Qty: qty("5")},
		{ProductID: "P2", BinID: "B1", Qty: qty("1")},
	}

	got := Compare(ledger, levels)

	require.Len(t, got, 2)
	assert.Equal(t, "B2", got[0].BinID)
	assert.True(t, got[0].LedgerQty.Equal(qty("4")))
	assert.True(t, got[0].StockQty.Equal(qty("5")))
	assert.Equal(t, "P2", got[1].ProductID)
	assert.True(t, got[1].LedgerQty.IsZero())
}

func TestCompare_SinDiferencias(t *testing.T) {
	ledger := map[Key]decimal.Decimal{{"P1", "B1"}: qty("2.0")}
	levels := []*entity.StockLevel{{ProductID: "P1", BinID: "B1", Qty: qty("2")}}

	assert.Empty(t, Compare(ledger, levels))
}
