package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. SKU vacío = se genera SKU-###.
type CreateProductRequest struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Unit         string           `json:"unit"`
	MinQty       *decimal.Decimal `json:"min_qty"`
	LeadTimeDays *int             `json:"lead_time_days"`
}

// UpdateProductRequest actualización parcial: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku"`
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Unit         *string          `json:"unit"`
	MinQty       *decimal.Decimal `json:"min_qty"`
	LeadTimeDays *int             `json:"lead_time_days"`
}

// Empty indica que el PATCH no trae ningún campo.
func (r UpdateProductRequest) Empty() bool {
	return r.SKU == nil && r.Name == nil && r.Description == nil &&
		r.Unit == nil && r.MinQty == nil && r.LeadTimeDays == nil
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string           `json:"id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Unit         string           `json:"unit"`
	MinQty       *decimal.Decimal `json:"min_qty"`
	LeadTimeDays int              `json:"lead_time_days"`
	CreatedAt    time.Time        `json:"created_at"`
}

// TransactionResponse entrada del historial de movimientos de un producto.
type TransactionResponse struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	ProductID        string          `json:"product_id"`
	FromBinID        string          `json:"from_bin_id,omitempty"`
	FromBinCode      string          `json:"from_bin_code,omitempty"`
	FromLocationName string          `json:"from_location_name,omitempty"`
	ToBinID          string          `json:"to_bin_id,omitempty"`
	ToBinCode        string          `json:"to_bin_code,omitempty"`
	ToLocationName   string          `json:"to_location_name,omitempty"`
	Qty              decimal.Decimal `json:"qty"`
	Reference        string          `json:"reference,omitempty"`
	PerformedBy      string          `json:"performed_by"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// OKResponse confirmación genérica de operaciones de administración.
type OKResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
