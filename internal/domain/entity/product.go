package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto al crear un producto sin esos campos.
const (
	DefaultUnit         = "each"
	DefaultLeadTimeDays = 0
)

// DefaultMinQty punto de reorden por defecto.
var DefaultMinQty = decimal.NewFromInt(10)

// Product representa un producto o SKU del catálogo.
// MinQty nulo hace que el resumen de stock bajo use el umbral global.
type Product struct {
	ID           string
	SKU          string // único
	Name         string
	Description  string
	Unit         string
	MinQty       decimal.NullDecimal
	LeadTimeDays int
	CreatedAt    time.Time
}
