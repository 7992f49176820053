package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel cantidad actual de un producto en un bin. Nunca negativa.
// La ausencia de fila equivale a cantidad cero.
type StockLevel struct {
	ProductID string
	BinID     string
	Qty       decimal.Decimal
	UpdatedAt time.Time
}

// StockView fila de stock con los nombres de producto, bin y ubicación resueltos.
type StockView struct {
	ProductID    string
	SKU          string
	ProductName  string
	LocationID   string
	LocationName string
	BinID        string
	BinCode      string
	Qty          decimal.Decimal
	UpdatedAt    time.Time
}

// LowStockItem fila de stock por debajo del mínimo del producto.
type LowStockItem struct {
	SKU          string
	ProductName  string
	Description  string
	LocationName string
	BinCode      string
	Qty          decimal.Decimal
	MinQty       decimal.Decimal
	LeadTimeDays int
}
